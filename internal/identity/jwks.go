package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var ErrInvalidToken = errors.New("invalid access token")

type Claims struct {
	Subject string
	Email   string
}

// JWKSVerifier checks access tokens against a cached key set.
type JWKSVerifier struct {
	cache *jwk.Cache
	url   string
}

// NewJWKSVerifier registers the issuer's well-known key set with a refreshing
// cache.
func NewJWKSVerifier(ctx context.Context, issuerURL string) (*JWKSVerifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	url := fmt.Sprintf("%s/.well-known/jwks.json", issuerURL)
	if err := cache.Register(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to register jwks with cache: %w", err)
	}

	return &JWKSVerifier{cache: cache, url: url}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, accessToken string) (*Claims, error) {
	set, err := v.cache.Lookup(ctx, v.url)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	token, err := jwt.Parse([]byte(accessToken), jwt.WithKeySet(set), jwt.WithValidate(true))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrInvalidToken)
	}

	claims := &Claims{Subject: subject}
	// email is not present on every token type
	_ = token.Get("email", &claims.Email)

	return claims, nil
}
