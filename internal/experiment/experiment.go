package experiment

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/guide"
	"github.com/san-kum/driftguide/internal/metrics"
	"github.com/san-kum/driftguide/internal/sim"
)

// Experiment is one configured guiding run: the mount described by a run
// configuration, a guide controller stamped by the simulated clock, and the
// default metric set.
type Experiment struct {
	cfg       *config.Config
	clock     *guide.ManualClock
	guider    *guide.Controller
	axis      *guide.Axis
	simulator *sim.Simulator
}

// New builds an experiment whose controller starts from the default gain
// and threshold.
func New(cfg *config.Config, log *zap.Logger) *Experiment {
	log = orNop(log)
	clock := guide.NewManualClock(epoch)
	ctrl := guide.New(guide.WithClock(clock), guide.WithLogger(log))
	return setup(cfg, clock, ctrl, nil, log)
}

// FromSettings builds an experiment whose controller is loaded from the
// profile path of cfg.Axis.
func FromSettings(cfg *config.Config, settings guide.Settings, log *zap.Logger) *Experiment {
	log = orNop(log)
	clock := guide.NewManualClock(epoch)
	axis := guide.LoadAxis(settings, guide.ConfigPath(cfg.Axis),
		guide.WithClock(clock), guide.WithLogger(log))
	return setup(cfg, clock, axis.Controller, axis, log)
}

func setup(cfg *config.Config, clock *guide.ManualClock, ctrl *guide.Controller, axis *guide.Axis, log *zap.Logger) *Experiment {
	s := sim.New(cfg.MountModel(), ctrl, clock, log.With(zap.String("axis", cfg.Axis)))
	for _, m := range metrics.Default(cfg.Metrics.Settle, cfg.Metrics.Threshold) {
		s.AddMetric(m)
	}
	return &Experiment{
		cfg:       cfg,
		clock:     clock,
		guider:    ctrl,
		axis:      axis,
		simulator: s,
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Guider returns the controller under test. Setting values through it does
// not touch the profile.
func (e *Experiment) Guider() *guide.Controller { return e.guider }

// Axis returns the profile-bound controller, or nil for experiments built
// with New.
func (e *Experiment) Axis() *guide.Axis { return e.axis }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

// Start begins a session that is stepped by the caller. A zero cycle count
// in cfg is allowed and yields an endless session.
func (e *Experiment) Start() (*sim.Session, error) {
	return e.simulator.Start(e.cfg.SimConfig())
}
