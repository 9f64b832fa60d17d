package guide

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultGain       = 1.0
	DefaultMinSamples = 25
)

// Controller is the linear regression guide algorithm for one mount axis.
type Controller struct {
	history *History
	clock   Clock
	log     *zap.Logger

	gain       float64
	minSamples int

	control float64
	start   time.Time
	lastMs  float64

	slope  float64
	active bool
}

type Option func(*Controller)

func WithClock(c Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(ctrl *Controller) { ctrl.log = l }
}

// WithCapacity overrides HistoryCapacity.
func WithCapacity(n int) Option {
	return func(ctrl *Controller) { ctrl.history = NewHistory(n) }
}

// New returns a controller configured with DefaultGain and DefaultMinSamples.
func New(opts ...Option) *Controller {
	c := &Controller{
		history:    NewHistory(HistoryCapacity),
		clock:      WallClock,
		log:        zap.NewNop(),
		gain:       DefaultGain,
		minSamples: DefaultMinSamples,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step records a measurement and returns the correction to issue.
// nextInterval is the duration of the coming exposure in seconds.
// A non-finite measurement is not recorded and no correction is issued for it.
func (c *Controller) Step(raw, nextInterval float64) float64 {
	if !isFinite(raw) {
		c.skip(raw)
		return 0
	}

	first := c.history.Len() == 0
	c.history.Push(Sample{Raw: raw})
	c.stamp(first)
	c.reconstruct()

	c.control = c.gain * raw

	slope, active := c.estimate()
	if active && !c.active {
		c.log.Debug("trend estimator active",
			zap.Int("samples", c.history.Len()),
			zap.Int("min_samples", c.minSamples))
	}
	c.slope, c.active = slope, active
	if predicted := nextInterval * slope; active && isFinite(predicted) {
		c.control += predicted
	}

	c.history.ref(0).Control = c.control
	return c.control
}

// PredictOnly returns the drift the estimator expects over nextInterval
// seconds without recording a cycle. It is 0 while the estimator is inactive.
func (c *Controller) PredictOnly(nextInterval float64) float64 {
	slope, active := c.estimate()
	if !active {
		return 0
	}
	return nextInterval * slope
}

// Reset drops the history and timing state. Gain and threshold are kept.
func (c *Controller) Reset() {
	c.history.Clear()
	c.control = 0
	c.lastMs = 0
	c.start = time.Time{}
	c.slope = 0
	c.active = false
}

// skip drops a bad measurement. The exposure still ends here, so the next
// sample's midpoint starts from now. The zero correction leaves the
// reconstruction of later samples unchanged.
func (c *Controller) skip(raw float64) {
	c.control = 0
	if c.history.Len() > 0 {
		c.lastMs = c.sinceStart(c.clock.Now())
	}
	c.log.Debug("non-finite measurement skipped", zap.Float64("raw", raw))
}

func (c *Controller) sinceStart(now time.Time) float64 {
	return float64(now.Sub(c.start)) / float64(time.Millisecond)
}

func (c *Controller) stamp(first bool) {
	now := c.clock.Now()
	if first {
		c.start = now
		c.lastMs = 0
	}
	nowMs := c.sinceStart(now)
	delta := nowMs - c.lastMs
	c.lastMs = nowMs
	c.history.ref(0).Timestamp = (c.lastMs - delta/2) / 1000
}

// reconstruct undoes the corrections already issued. A correction issued for
// the previous cycle suppressed part of the error measured now, so it is added
// back before integrating from the previous reconstructed value.
func (c *Controller) reconstruct() {
	cur := c.history.ref(0)
	if c.history.Len() <= 1 {
		cur.Corrected = cur.Raw
		return
	}
	prev := c.history.At(1)
	cur.Corrected = cur.Raw + prev.Control - prev.Raw + prev.Corrected
}

func (c *Controller) estimate() (float64, bool) {
	n := c.history.Len()
	if c.minSamples <= 0 || n <= c.minSamples {
		return 0, false
	}

	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		s := c.history.At(n - 1 - i)
		ts[i] = s.Timestamp
		ys[i] = s.Corrected
	}

	line, err := FitLine(ts, ys, Ridge)
	if err != nil {
		c.log.Debug("drift fit discarded", zap.Int("samples", n), zap.Error(err))
		return 0, true
	}
	return line.Slope, true
}

// SetGain sets the proportional gain. Values outside [0, 1] are rejected and
// DefaultGain is used instead.
func (c *Controller) SetGain(gain float64) error {
	if !(gain >= 0 && gain <= 1) {
		c.gain = DefaultGain
		return fmt.Errorf("%w: control gain %v outside [0, 1]", ErrInvalidParameter, gain)
	}
	c.gain = gain
	return nil
}

// SetMinSamplesForInference sets how many samples the history must exceed
// before the drift estimate is used. 0 disables the estimator. Negative
// values are rejected and DefaultMinSamples is used instead.
func (c *Controller) SetMinSamplesForInference(n int) error {
	if n < 0 {
		c.minSamples = DefaultMinSamples
		return fmt.Errorf("%w: min samples for inference %d is negative", ErrInvalidParameter, n)
	}
	c.minSamples = n
	return nil
}

func (c *Controller) Gain() float64               { return c.gain }
func (c *Controller) MinSamplesForInference() int { return c.minSamples }

// Control returns the last correction returned by Step.
func (c *Controller) Control() float64 { return c.control }

// DriftRate returns the slope found by the last Step and whether the
// estimator was active for it.
func (c *Controller) DriftRate() (float64, bool) { return c.slope, c.active }

// Len returns the number of buffered samples.
func (c *Controller) Len() int { return c.history.Len() }

// Last returns the newest sample.
func (c *Controller) Last() (Sample, bool) {
	if c.history.Len() == 0 {
		return Sample{}, false
	}
	return c.history.At(0), true
}

// Samples returns the buffered samples, oldest first.
func (c *Controller) Samples() []Sample { return c.history.Samples() }

func (c *Controller) SettingsSummary() string {
	return fmt.Sprintf("Control Gain = %.3f\nMin data points = %d\n", c.gain, c.minSamples)
}
