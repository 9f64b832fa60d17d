package guide

import "go.uber.org/zap"

const (
	gainKey       = "/lr_controlGain"
	minSamplesKey = "/lr_nbminelementforinference"
)

// Settings is the persistent store an Axis reads and writes its
// configuration through.
type Settings interface {
	Double(key string, def float64) float64
	SetDouble(key string, v float64)
	Int(key string, def int) int
	SetInt(key string, v int)
}

// ConfigPath returns the settings path of the guide algorithm for an axis,
// e.g. "ra" or "dec".
func ConfigPath(axis string) string {
	return "/guider/" + axis + "/linear_regression"
}

// Axis is a Controller bound to a settings path. Validated configuration
// changes are written back to the settings.
type Axis struct {
	*Controller
	settings Settings
	path     string
}

// LoadAxis builds a controller from the values stored under path. Missing
// values take the defaults; invalid ones are logged and replaced by the
// defaults.
func LoadAxis(settings Settings, path string, opts ...Option) *Axis {
	a := &Axis{
		Controller: New(opts...),
		settings:   settings,
		path:       path,
	}
	if err := a.Controller.SetGain(settings.Double(path+gainKey, DefaultGain)); err != nil {
		a.log.Warn("stored control gain rejected", zap.String("path", path), zap.Error(err))
	}
	if err := a.Controller.SetMinSamplesForInference(settings.Int(path+minSamplesKey, DefaultMinSamples)); err != nil {
		a.log.Warn("stored min samples rejected", zap.String("path", path), zap.Error(err))
	}
	return a
}

func (a *Axis) Path() string { return a.path }

func (a *Axis) SetGain(gain float64) error {
	if err := a.Controller.SetGain(gain); err != nil {
		return err
	}
	a.settings.SetDouble(a.path+gainKey, gain)
	return nil
}

func (a *Axis) SetMinSamplesForInference(n int) error {
	if err := a.Controller.SetMinSamplesForInference(n); err != nil {
		return err
	}
	a.settings.SetInt(a.path+minSamplesKey, n)
	return nil
}
