package marketdata

import (
	"errors"
	"fmt"
)

// ErrNoData marks a symbol the provider has no usable data for. Callers may
// treat it as "unknown symbol" and fall back to company-name resolution.
var ErrNoData = errors.New("no market data for symbol")

// UpstreamError reports a provider failure that survived the immediate retry
// (network failure, timeout, or a 5xx). It maps to a 502 at the HTTP boundary.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
