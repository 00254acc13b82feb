package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

// FirebaseVerifier verifies Firebase ID tokens.
//
// A token is accepted when it is signed with RS256 by one of Google's
// published token-signing certificates, its issuer is
// https://securetoken.google.com/{projectID}, its audience is the project
// ID, it has not expired, and its subject (the Firebase UID) is non-empty.
type FirebaseVerifier struct {
	projectID    string
	certEndpoint string
	certs        *certSource
	parser       *jwt.Parser
}

// Option configures a FirebaseVerifier.
type Option func(*FirebaseVerifier)

// WithCertEndpoint overrides the certificate endpoint. Used in tests.
func WithCertEndpoint(endpoint string) Option {
	return func(v *FirebaseVerifier) {
		v.certEndpoint = endpoint
	}
}

// firebaseClaims extends the registered claims with the ones Firebase adds.
type firebaseClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// NewFirebaseVerifier creates a verifier for ID tokens of the service
// account's Firebase project.
func NewFirebaseVerifier(sa ServiceAccount, opts ...Option) *FirebaseVerifier {
	v := &FirebaseVerifier{
		projectID:    sa.ProjectID,
		certEndpoint: defaultCertEndpoint,
	}

	for _, opt := range opts {
		opt(v)
	}

	v.certs = newCertSource(v.certEndpoint)
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+sa.ProjectID),
		jwt.WithAudience(sa.ProjectID),
		jwt.WithExpirationRequired(),
	)

	return v
}

// Verify parses and validates an ID token and returns the caller identity.
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (Identity, error) {
	claims := &firebaseClaims{}

	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		return v.certs.key(ctx, kid)
	})
	if err != nil || !token.Valid {
		slog.Debug("firebase token verification failed", "err", err)
		return Identity{}, fmt.Errorf("verify firebase token: %w", ErrInvalidToken)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("verify firebase token: empty subject: %w", ErrInvalidToken)
	}

	return Identity{UID: claims.Subject, Email: claims.Email}, nil
}
