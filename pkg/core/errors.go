package core

import "fmt"

// ConfigurationError reports an invalid construction request: a composite
// with no children, a singular transform matrix, a non-positive scale
// parameter. It is raised at construction time and is never retryable.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Msg
}

// Configf builds a ConfigurationError with fmt-style formatting.
func Configf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// AccuracyError reports that rendering cannot meet the configured tolerance
// within its resource bounds, e.g. the FFT grid implied by stepK exceeds
// MaximumFFTSize. Requested and Available let the caller decide whether to
// relax tolerances and retry.
type AccuracyError struct {
	Msg       string
	Requested int
	Available int
}

func (e *AccuracyError) Error() string {
	return fmt.Sprintf("accuracy requirements unachievable: %s (requested %d, available %d)",
		e.Msg, e.Requested, e.Available)
}

// UnsupportedError reports a request for a representation a profile does not
// define analytically, e.g. real-space evaluation of a pure Fourier-space
// composite.
type UnsupportedError struct {
	Op      string
	Profile string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not analytically defined for %s", e.Op, e.Profile)
}

// NumericalError reports a convergence failure in root finding or table
// construction. Failures are never cached: retrying the same request
// re-attempts the computation.
type NumericalError struct {
	Msg string
}

func (e *NumericalError) Error() string {
	return "numerical failure: " + e.Msg
}
