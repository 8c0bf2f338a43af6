package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/civic-issue-tracker/internal"
)

// Identity is what the identity provider vouches for: a verified email and its subject id.
type Identity struct {
	Email   string
	Subject string
	Name    string
	Image   string
}

// Claims carries the identity provider's token payload.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier is the identity provider oracle.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// Provisioner loads the stored account for a verified identity, creating a default one on first sight.
type Provisioner interface {
	EnsureUser(ctx context.Context, id Identity) (*internal.Principal, error)
}
