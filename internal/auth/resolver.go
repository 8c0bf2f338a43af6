package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

// Resolver turns a bearer credential into the stored principal for the caller.
type Resolver struct {
	*transport.BaseHandler
	verifier TokenVerifier
	users    Provisioner
}

func NewResolver(verifier TokenVerifier, users Provisioner, lg *slog.Logger) *Resolver {
	return &Resolver{
		BaseHandler: transport.NewBaseHandler(lg),
		verifier:    verifier,
		users:       users,
	}
}

// Resolve verifies credential and provisions the account if the email has never been seen.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*internal.Principal, error) {
	if credential == "" {
		return nil, internal.ErrMissingToken
	}

	id, err := r.verifier.Verify(credential)
	if err != nil {
		return nil, err
	}

	principal, err := r.users.EnsureUser(ctx, *id)
	if err != nil {
		return nil, err
	}
	return principal, nil
}

// Authenticate rejects the request with 401 unless it carries a verifiable bearer token.
func (r *Resolver) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		principal, err := r.Resolve(req.Context(), r.ExtractTokenFromHeader(req))
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeUnauthenticated {
				r.Logger.WarnContext(req.Context(), "authentication failed", "error", err, "path", req.URL.Path)
			}
			r.HandleError(w, req, err)
			return
		}

		ctx := internal.ContextWithPrincipal(req.Context(), principal)
		ctx = logger.With(ctx, "user_email", principal.Email)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
