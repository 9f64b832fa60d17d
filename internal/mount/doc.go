// Package mount provides synthetic pointing error models for one mount axis.
//
// A [Model] returns the error the axis would accumulate at time t if no guide
// correction were ever applied:
//
//   - [Drift]: constant offset plus linear drift (polar misalignment,
//     refraction, differential flexure)
//   - [Periodic]: sinusoidal worm gear error
//   - [Composite]: sum of models
//
// Seeing noise is not part of a model; the simulator adds it per measurement.
package mount
