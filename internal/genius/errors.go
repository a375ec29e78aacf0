// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genius

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned by NewClient when no access token is
// available from any configuration source.
var ErrMissingToken = errors.New("genius: access token required")

// TransportError reports a request that failed after exhausting the
// retry budget: a network error, a non-2xx status, or an unparseable
// response body.
type TransportError struct {
	// Endpoint names the API call that failed ("search" or "artist").
	Endpoint string

	// Status is the last HTTP status received, or 0 for network errors.
	Status int

	// Err is the underlying failure.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("genius %s: HTTP %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("genius %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataShapeError reports a response whose JSON decoded but did not match
// the documented envelope, e.g. a string where an object is expected.
// Merely absent fields are not shape errors; they default to null.
type DataShapeError struct {
	Endpoint string
	Err      error
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("genius %s: unexpected response shape: %v", e.Endpoint, e.Err)
}

func (e *DataShapeError) Unwrap() error { return e.Err }
