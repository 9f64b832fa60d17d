package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettings struct {
	doubles map[string]float64
	ints    map[string]int
}

func newMemSettings() *memSettings {
	return &memSettings{doubles: map[string]float64{}, ints: map[string]int{}}
}

func (m *memSettings) Double(key string, def float64) float64 {
	if v, ok := m.doubles[key]; ok {
		return v
	}
	return def
}

func (m *memSettings) SetDouble(key string, v float64) { m.doubles[key] = v }

func (m *memSettings) Int(key string, def int) int {
	if v, ok := m.ints[key]; ok {
		return v
	}
	return def
}

func (m *memSettings) SetInt(key string, v int) { m.ints[key] = v }

func TestLoadAxisDefaults(t *testing.T) {
	a := LoadAxis(newMemSettings(), ConfigPath("ra"))

	assert.Equal(t, DefaultGain, a.Gain())
	assert.Equal(t, DefaultMinSamples, a.MinSamplesForInference())
	assert.Equal(t, "/guider/ra/linear_regression", a.Path())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0.0, a.Control())
}

func TestLoadAxisStoredValues(t *testing.T) {
	s := newMemSettings()
	path := ConfigPath("dec")
	s.SetDouble(path+gainKey, 0.65)
	s.SetInt(path+minSamplesKey, 40)

	a := LoadAxis(s, path)
	assert.Equal(t, 0.65, a.Gain())
	assert.Equal(t, 40, a.MinSamplesForInference())
}

func TestLoadAxisInvalidStoredValues(t *testing.T) {
	s := newMemSettings()
	path := ConfigPath("ra")
	s.SetDouble(path+gainKey, 3)
	s.SetInt(path+minSamplesKey, -4)

	a := LoadAxis(s, path)
	assert.Equal(t, DefaultGain, a.Gain())
	assert.Equal(t, DefaultMinSamples, a.MinSamplesForInference())
}

func TestAxisPersistsValidatedValues(t *testing.T) {
	s := newMemSettings()
	path := ConfigPath("ra")
	a := LoadAxis(s, path)

	require.NoError(t, a.SetGain(0.3))
	require.NoError(t, a.SetMinSamplesForInference(7))
	assert.Equal(t, 0.3, s.doubles[path+gainKey])
	assert.Equal(t, 7, s.ints[path+minSamplesKey])

	assert.ErrorIs(t, a.SetGain(-2), ErrInvalidParameter)
	assert.ErrorIs(t, a.SetMinSamplesForInference(-1), ErrInvalidParameter)
	assert.Equal(t, 0.3, s.doubles[path+gainKey], "rejected gain must not be stored")
	assert.Equal(t, 7, s.ints[path+minSamplesKey], "rejected threshold must not be stored")
	assert.Equal(t, DefaultGain, a.Gain())
	assert.Equal(t, DefaultMinSamples, a.MinSamplesForInference())
}
