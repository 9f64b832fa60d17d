// Package analysis provides spectral analysis of guide error series.
//
// Residual periodic error left after guiding shows up as a peak in the
// power spectrum; its period usually matches the worm period of the mount:
//
//	spec := analysis.PowerSpectrum(raw, exposure)
//	period, _, ok := analysis.DominantPeriod(raw, exposure)
package analysis
