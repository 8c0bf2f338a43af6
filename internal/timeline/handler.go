package timeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	ListByIssue(ctx context.Context, issueID string) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

// GetTimeline handles GET /timeline/{issueId}
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListByIssue(r.Context(), chi.URLParam(r, "issueId"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entries)
}
