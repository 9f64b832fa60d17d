// Package guide implements the linear regression guide algorithm: a per-axis
// controller that turns periodic pointing-error measurements into mount
// corrections.
//
// Each call to [Controller.Step] records one guide cycle in a bounded
// [History]. The controller reconstructs the error trajectory the mount would
// have followed without any of its own corrections, fits a ridge-regularised
// line through that trajectory and adds the predicted drift over the next
// exposure to a proportional term:
//
//	control = gain*raw + nextExposure*slope
//
// The predictive term is only used once the history holds more than
// [Controller.MinSamplesForInference] samples.
//
// # Usage
//
//	ctrl := guide.New(guide.WithLogger(log))
//	for m := range measurements {
//		mount.Guide(ctrl.Step(m, exposure.Seconds()))
//	}
//
// # Thread Safety
//
// Controller instances are NOT safe for concurrent use. Callers driving a
// controller from several goroutines must serialise access themselves.
package guide
