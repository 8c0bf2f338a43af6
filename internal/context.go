package internal

import (
	"context"
	"time"
)

// Role is an enumerated account role. Roles have no ordering: admin is not a superset of staff.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated caller as loaded from the user directory.
type Principal struct {
	ID        int64
	Email     string
	Subject   string
	Role      Role
	IsPremium bool
	IsBlocked bool
}

func (p *Principal) HasRole(r Role) bool {
	return p != nil && p.Role == r
}

type ctxKey string

const (
	contextPrincipalKey ctxKey = "principal"
)

func PrincipalFromContext(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(contextPrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
