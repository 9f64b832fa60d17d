package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/driftguide/internal/sim"
)

// Exporter publishes every simulated cycle as prometheus gauges.
type Exporter struct {
	raw       prometheus.Gauge
	control   prometheus.Gauge
	corrected prometheus.Gauge
	drift     prometheus.Gauge
	active    prometheus.Gauge
	cycles    prometheus.Counter
}

func NewExporter(reg prometheus.Registerer, axis string) (*Exporter, error) {
	labels := prometheus.Labels{"axis": axis}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "driftguide",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	e := &Exporter{
		raw:       gauge("raw_error", "Measured guide error of the last cycle."),
		control:   gauge("control", "Correction issued in the last cycle."),
		corrected: gauge("corrected_error", "Reconstructed uncorrected error of the last cycle."),
		drift:     gauge("drift_rate", "Estimated drift rate per second."),
		active:    gauge("drift_estimator_active", "1 when the drift estimator contributed to the last correction."),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "driftguide",
			Name:        "cycles_total",
			Help:        "Guide cycles processed.",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{e.raw, e.control, e.corrected, e.drift, e.active, e.cycles} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Exporter) OnCycle(c sim.Cycle) {
	e.raw.Set(c.Raw)
	e.control.Set(c.Control)
	e.corrected.Set(c.Corrected)
	e.drift.Set(c.DriftRate)
	if c.DriftActive {
		e.active.Set(1)
	} else {
		e.active.Set(0)
	}
	e.cycles.Inc()
}
