package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/driftguide/internal/sim"
)

// Fields names the cycle values that can be plotted.
var Fields = map[string]func(sim.Cycle) float64{
	"raw":        func(c sim.Cycle) float64 { return c.Raw },
	"control":    func(c sim.Cycle) float64 { return c.Control },
	"corrected":  func(c sim.Cycle) float64 { return c.Corrected },
	"truth":      func(c sim.Cycle) float64 { return c.Truth },
	"drift_rate": func(c sim.Cycle) float64 { return c.DriftRate },
}

func FieldNames() []string {
	names := make([]string, 0, len(Fields))
	for name := range Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlotSeries plots one field of every cycle.
func PlotSeries(cycles []sim.Cycle, field string, width, height int) (string, error) {
	get, ok := Fields[field]
	if !ok {
		return "", fmt.Errorf("unknown field %q (available: %s)", field, strings.Join(FieldNames(), ", "))
	}
	if len(cycles) == 0 {
		return "", fmt.Errorf("no cycles to plot")
	}

	data := make([]float64, len(cycles))
	for i, c := range cycles {
		data[i] = get(c)
	}
	return Plot(data, field, width, height), nil
}

// Plot draws data as an asciigraph line plot.
func Plot(data []float64, caption string, width, height int) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Summary renders metric values and controller settings side by side.
func Summary(title string, metrics map[string]float64, settings string) string {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var m strings.Builder
	m.WriteString(Title.Render(title) + "\n\n")
	for _, k := range keys {
		m.WriteString(MetricLabel.Render(k) + MetricValue.Render(fmt.Sprintf("%.4f", metrics[k])) + "\n")
	}

	if settings == "" {
		return Panel.Render(strings.TrimRight(m.String(), "\n"))
	}
	s := Title.Render("controller") + "\n\n" + strings.TrimRight(settings, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(strings.TrimRight(m.String(), "\n")),
		Panel.Render(s),
	)
}
