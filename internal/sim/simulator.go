package sim

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/driftguide/internal/guide"
	"github.com/san-kum/driftguide/internal/mount"
)

// Simulator closes the loop between a mount model and a guide algorithm. It
// plays the part of the guiding loop: it decides the exposure cadence,
// produces a noisy measurement at the end of each exposure and applies the
// returned correction.
type Simulator struct {
	mount     mount.Model
	guider    Guider
	clock     *guide.ManualClock
	log       *zap.Logger
	metrics   []Metric
	observers []Observer
}

// New builds a simulator. clock must be the clock the guider stamps its
// samples with; the simulator advances it by every exposure.
func New(m mount.Model, g Guider, clock *guide.ManualClock, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		mount:     m,
		guider:    g,
		clock:     clock,
		log:       log,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func validateConfig(cfg Config) error {
	if cfg.Cycles < 0 {
		return fmt.Errorf("%w: cycles must not be negative, got %d", ErrInvalidConfig, cfg.Cycles)
	}
	if !(cfg.Exposure > 0) {
		return fmt.Errorf("%w: exposure must be positive, got %f", ErrInvalidConfig, cfg.Exposure)
	}
	if !(cfg.Jitter >= 0 && cfg.Jitter < 1) {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %f", ErrInvalidConfig, cfg.Jitter)
	}
	if !(cfg.Noise >= 0) {
		return fmt.Errorf("%w: noise must not be negative, got %f", ErrInvalidConfig, cfg.Noise)
	}
	return nil
}

// Start validates cfg and returns a session positioned before the first
// cycle. Metrics are reset.
func (s *Simulator) Start(cfg Config) (*Session, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.guider.Reset()
	return &Session{
		sim: s,
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Cycles == 0 {
		return nil, fmt.Errorf("%w: cycles must be positive", ErrInvalidConfig)
	}
	session, err := s.Start(cfg)
	if err != nil {
		return nil, err
	}

	s.log.Info("simulation started",
		zap.Int("cycles", cfg.Cycles),
		zap.Float64("exposure", cfg.Exposure),
		zap.Float64("noise", cfg.Noise),
		zap.Int64("seed", cfg.Seed))

	result := &Result{
		Cycles:  make([]Cycle, 0, cfg.Cycles),
		Metrics: make(map[string]float64),
	}

	for !session.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result.Cycles = append(result.Cycles, session.Next())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info("simulation finished", zap.Int("cycles", len(result.Cycles)), zap.Any("metrics", result.Metrics))
	return result, nil
}

// RunWithCallback runs until the configured cycle count is reached or
// callback returns false. A zero cycle count runs until ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Cycle) bool) error {
	session, err := s.Start(cfg)
	if err != nil {
		return err
	}

	for !session.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !callback(session.Next()) {
			return nil
		}
	}
	return nil
}

// Session steps a simulation one cycle at a time.
type Session struct {
	sim     *Simulator
	cfg     Config
	rng     *rand.Rand
	t       float64
	applied float64
	index   int
}

// Done reports whether the configured cycle count is reached. Sessions with
// a zero cycle count never finish.
func (ss *Session) Done() bool {
	return ss.cfg.Cycles > 0 && ss.index >= ss.cfg.Cycles
}

func (ss *Session) Config() Config { return ss.cfg }

// Next exposes, measures and corrects once.
func (ss *Session) Next() Cycle {
	s := ss.sim

	exposure := ss.cfg.Exposure
	if ss.cfg.Jitter > 0 {
		exposure *= 1 + ss.cfg.Jitter*(2*ss.rng.Float64()-1)
	}
	ss.t += exposure
	s.clock.Advance(exposure)

	truth := s.mount.Position(ss.t)
	raw := truth - ss.applied
	if ss.cfg.Noise > 0 {
		raw += ss.rng.NormFloat64() * ss.cfg.Noise
	}

	u := s.guider.Step(raw, ss.cfg.Exposure)
	ss.applied += u

	rate, active := s.guider.DriftRate()
	c := Cycle{
		Index:       ss.index,
		Time:        ss.t,
		Exposure:    exposure,
		Truth:       truth,
		Raw:         raw,
		Control:     u,
		DriftRate:   rate,
		DriftActive: active,
	}
	if last, ok := s.guider.Last(); ok {
		c.Corrected = last.Corrected
		c.Timestamp = last.Timestamp
	}
	ss.index++

	for _, m := range s.metrics {
		m.Observe(c)
	}
	for _, obs := range s.observers {
		obs.OnCycle(c)
	}
	return c
}

// ResetGuider restarts the guide algorithm while the mount keeps its state,
// as when guiding is stopped and resumed on the same target.
func (ss *Session) ResetGuider() {
	ss.sim.guider.Reset()
	ss.sim.log.Debug("guider reset", zap.Int("cycle", ss.index), zap.Float64("time", ss.t))
}
