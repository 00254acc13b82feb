// Package identity provides Verifier implementations for caller authentication.
//
// The gateway delegates credential verification to an external identity
// provider: a bearer token goes in, an opaque caller identity comes out.
// The production implementation verifies Firebase ID tokens against
// Google's published certificates; a map-backed verifier is available for
// development and tests.
package identity

import "context"

// Identity is the authenticated caller identity produced from a bearer
// credential. It is request-scoped and never persisted.
type Identity struct {
	UID   string
	Email string
}

// Verifier validates a bearer credential and returns the caller identity.
//
// Implementations must return an error wrapping ErrInvalidToken for any
// token that is expired, malformed, or carries an invalid signature.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
