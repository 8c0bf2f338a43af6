package auth

import (
	"net/http"

	"github.com/frahmantamala/civic-issue-tracker/internal"
)

// Check is a single authorization predicate. It never has side effects.
type Check func(p *internal.Principal) error

func RequireAuth() Check {
	return func(p *internal.Principal) error {
		if p == nil {
			return internal.ErrUnauthenticated
		}
		return nil
	}
}

// RequireRole passes only on exact role equality.
func RequireRole(role internal.Role) Check {
	return func(p *internal.Principal) error {
		if p == nil {
			return internal.ErrUnauthenticated
		}
		if p.Role != role {
			return internal.ErrRoleRequired.WithDetails(map[string]string{"required": string(role)})
		}
		return nil
	}
}

func RequireNotBlocked() Check {
	return func(p *internal.Principal) error {
		if p == nil {
			return internal.ErrUnauthenticated
		}
		if p.IsBlocked {
			return internal.ErrUserBlocked
		}
		return nil
	}
}

// RequireOwnerOrRole passes when the caller owns the resource or holds role.
func RequireOwnerOrRole(ownerEmail string, role internal.Role) Check {
	return func(p *internal.Principal) error {
		if p == nil {
			return internal.ErrUnauthenticated
		}
		if (ownerEmail != "" && p.Email == ownerEmail) || p.HasRole(role) {
			return nil
		}
		return internal.ErrNotOwner
	}
}

// RequireSelf passes only when the caller is the account identified by email.
func RequireSelf(email string) Check {
	return func(p *internal.Principal) error {
		if p == nil {
			return internal.ErrUnauthenticated
		}
		if email == "" || p.Email != email {
			return internal.ErrNotOwner
		}
		return nil
	}
}

// Evaluate runs checks in order and returns the first failure.
func Evaluate(p *internal.Principal, checks ...Check) error {
	for _, check := range checks {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}

// Require builds a middleware from static checks against the principal in the request context.
func (r *Resolver) Require(checks ...Check) func(http.Handler) http.Handler {
	return r.RequireFor(func(*http.Request) []Check { return checks })
}

// RequireFor builds a middleware whose checks depend on the request, e.g. an owner taken from a path parameter.
func (r *Resolver) RequireFor(build func(req *http.Request) []Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			p := internal.PrincipalFromContext(req.Context())
			if err := Evaluate(p, build(req)...); err != nil {
				r.Logger.WarnContext(req.Context(), "access denied", "path", req.URL.Path, "error", err)
				r.HandleError(w, req, err)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
