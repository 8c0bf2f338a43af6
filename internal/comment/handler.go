package comment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.Principal, dto CreateCommentDTO) (*Comment, error)
	ListByIssue(ctx context.Context, issueID string) ([]*Comment, error)
	Delete(ctx context.Context, actor *internal.Principal, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

// CreateComment handles POST /comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var dto CreateCommentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	c, err := h.Service.Create(r.Context(), internal.PrincipalFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

// ListComments handles GET /comments/{issueId}
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Service.ListByIssue(r.Context(), chi.URLParam(r, "issueId"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, comments)
}

// DeleteComment handles DELETE /comments/{id}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), internal.PrincipalFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}
