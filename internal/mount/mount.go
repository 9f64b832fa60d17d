package mount

import "math"

type Model interface {
	Position(t float64) float64
}

// Drift is Offset + Rate*t.
type Drift struct {
	Offset float64
	Rate   float64
}

func (d Drift) Position(t float64) float64 {
	return d.Offset + d.Rate*t
}

// Periodic is Amplitude*sin(2πt/Period + Phase). A non-positive period
// disables it.
type Periodic struct {
	Amplitude float64
	Period    float64
	Phase     float64
}

func (p Periodic) Position(t float64) float64 {
	if p.Period <= 0 {
		return 0
	}
	return p.Amplitude * math.Sin(2*math.Pi*t/p.Period+p.Phase)
}

type Composite []Model

func (c Composite) Position(t float64) float64 {
	sum := 0.0
	for _, m := range c {
		sum += m.Position(t)
	}
	return sum
}

// GetParams returns the tunable parameters of the drift and periodic terms.
func GetParams(m Model) map[string]float64 {
	params := make(map[string]float64)
	collect(m, params)
	return params
}

func collect(m Model, params map[string]float64) {
	switch v := m.(type) {
	case Drift:
		params["offset"] = v.Offset
		params["rate"] = v.Rate
	case *Drift:
		params["offset"] = v.Offset
		params["rate"] = v.Rate
	case Periodic:
		params["amplitude"] = v.Amplitude
		params["period"] = v.Period
	case *Periodic:
		params["amplitude"] = v.Amplitude
		params["period"] = v.Period
	case Composite:
		for _, sub := range v {
			collect(sub, params)
		}
	}
}
