package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

// Verifier turns a provider credential into verified profile claims
type Verifier interface {
	Verify(ctx context.Context, credential string) (*domain.ProviderClaims, error)
}

// GoogleVerifier verifies Google-issued ID tokens for a single OAuth client
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

type googleClaims struct {
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

// NewGoogleVerifier discovers the issuer's signing keys and returns a verifier
// accepting tokens whose audience is clientID
func NewGoogleVerifier(ctx context.Context, issuer, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &GoogleVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewGoogleVerifierWithKeySet builds a verifier from a fixed key set. A nil
// now uses the wall clock.
func NewGoogleVerifierWithKeySet(issuer, clientID string, keys oidc.KeySet, now func() time.Time) *GoogleVerifier {
	return &GoogleVerifier{
		verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: clientID, Now: now}),
	}
}

// Verify checks the token signature, issuer, audience and expiry. Any
// failure is reported as domain.ErrUpstreamAuth.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*domain.ProviderClaims, error) {
	token, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}

	var claims googleClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}

	return &domain.ProviderClaims{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
