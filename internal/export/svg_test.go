package export

import (
	"strings"
	"testing"
)

func TestSeriesSVG(t *testing.T) {
	if out := SeriesSVG([]Point{{0, 1}}, 100, 50, "#00ff00"); out != "" {
		t.Errorf("expected empty output for one point, got %q", out)
	}

	out := SeriesSVG([]Point{{0, -1}, {1, 1}, {2, 0}}, 100, 50, "#00ff00")
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("not an svg document: %q", out)
	}
	if !strings.Contains(out, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
	if strings.Count(out, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(out, " L"))
	}
	if !strings.Contains(out, "<line") {
		t.Error("zero line missing for a series crossing zero")
	}
}

func TestSeriesSVGFlat(t *testing.T) {
	out := SeriesSVG([]Point{{0, 2}, {1, 2}}, 10, 10, "red")
	if strings.Contains(out, "NaN") {
		t.Errorf("flat series produced NaN: %q", out)
	}
	if strings.Contains(out, "<line") {
		t.Error("zero line drawn for a series above zero")
	}
}
