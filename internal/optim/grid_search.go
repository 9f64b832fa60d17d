package optim

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/driftguide/internal/experiment"
)

var ErrNoResult = errors.New("optim: no grid point produced a result")

// Point is one evaluated combination of controller settings.
type Point struct {
	Gain       float64
	MinSamples int
	Value      float64
	Err        error
}

// GridSearch evaluates every combination of control gain and minimum sample
// count and keeps the one with the lowest metric value.
type GridSearch struct {
	gains      []float64
	minSamples []int
	workers    int
}

func NewGridSearch(gains []float64, minSamples []int) *GridSearch {
	return &GridSearch{gains: gains, minSamples: minSamples, workers: runtime.NumCPU()}
}

// WithWorkers bounds the number of experiments run at the same time.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Search builds and runs one experiment per grid point. Points whose
// settings are rejected by the controller or whose run fails carry the
// error and take no part in the selection. All points are returned in grid
// order, gains outermost.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func() *experiment.Experiment,
	metricName string,
) (Point, []Point, error) {
	points := make([]Point, 0, len(g.gains)*len(g.minSamples))
	for _, gain := range g.gains {
		for _, n := range g.minSamples {
			points = append(points, Point{Gain: gain, MinSamples: n})
		}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < g.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				evaluate(ctx, &points[i], buildExperiment, metricName)
			}
		}()
	}

feed:
	for i := range points {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Point{}, points, err
	}

	best := Point{Value: math.Inf(1)}
	found := false
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if !found || p.Value < best.Value {
			best, found = p, true
		}
	}
	if !found {
		return Point{}, points, ErrNoResult
	}
	return best, points, nil
}

func evaluate(ctx context.Context, p *Point, buildExperiment func() *experiment.Experiment, metricName string) {
	exp := buildExperiment()
	if err := exp.Guider().SetGain(p.Gain); err != nil {
		p.Err = err
		return
	}
	if err := exp.Guider().SetMinSamplesForInference(p.MinSamples); err != nil {
		p.Err = err
		return
	}

	result, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		p.Err = errors.New("optim: metric " + metricName + " not recorded")
		return
	}
	p.Value = val
}

// Ranked returns the successful points ordered by increasing value.
func Ranked(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
