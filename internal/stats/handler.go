package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	Admin(ctx context.Context) (*AdminStats, error)
	Citizen(ctx context.Context, email string) (*CitizenStats, error)
	Staff(ctx context.Context, email string) (*StaffStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

// AdminStats handles GET /dashboard/admin/stats
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Admin(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

// CitizenStats handles GET /issues/citizen/stats/{email}
func (h *Handler) CitizenStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Citizen(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

// StaffStats handles GET /issues/staff/stats/{email}
func (h *Handler) StaffStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Staff(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}
