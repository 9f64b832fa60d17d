package guide

import "errors"

var (
	// ErrInvalidParameter indicates a setter received a value outside its
	// valid domain. The controller falls back to the documented default.
	ErrInvalidParameter = errors.New("guide: invalid parameter")

	// ErrNonFiniteFit indicates the regression window produced a non-finite
	// solution, which only happens for NaN or Inf input.
	ErrNonFiniteFit = errors.New("guide: regression produced a non-finite solution")
)
