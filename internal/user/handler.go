package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterUserDTO) (*User, bool, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, role string) ([]*User, error)
	SetRole(ctx context.Context, actor *internal.Principal, email string, dto SetRoleDTO) (*User, error)
	SetBlocked(ctx context.Context, actor *internal.Principal, email string, dto SetBlockedDTO) (*User, error)
	SetPremium(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, email string, dto UpdateProfileDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Register handles POST /users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, created, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, u)
}

// GetUser handles GET /users/{email}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetByEmail(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// SetRole handles PATCH /users/role/{email}
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	var dto SetRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	actor := internal.PrincipalFromContext(r.Context())
	u, err := h.Service.SetRole(r.Context(), actor, transport.PathEmail(r, "email"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// SetBlocked handles PATCH /users/block/{email}
func (h *Handler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	var dto SetBlockedDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	actor := internal.PrincipalFromContext(r.Context())
	u, err := h.Service.SetBlocked(r.Context(), actor, transport.PathEmail(r, "email"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// SetPremium handles PATCH /users/premium/{email}
func (h *Handler) SetPremium(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.SetPremium(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PATCH /users/{email}
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), transport.PathEmail(r, "email"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}
