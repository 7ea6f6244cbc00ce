package calculator

import "errors"

// ErrInsufficientData marks an indicator that cannot be computed because the
// series is shorter than the indicator's window. Callers treat it as
// per-indicator unavailability, not as a failure of the whole computation.
var ErrInsufficientData = errors.New("insufficient data")
