package identity

import (
	"context"
	"fmt"
)

// StaticVerifier resolves tokens from an in-memory map.
// Suitable for local development and tests; never use in production.
type StaticVerifier struct {
	tokens map[string]string
}

// NewStaticVerifier creates a verifier from a token to user ID mapping.
func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

// Verify looks the token up in the map.
func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	uid, found := v.tokens[token]
	if !found {
		return Identity{}, fmt.Errorf("static verify: %w", ErrInvalidToken)
	}
	return Identity{UID: uid}, nil
}
