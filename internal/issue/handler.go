package issue

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/core/common/validation"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.Principal, dto CreateIssueDTO) (*Issue, error)
	Get(ctx context.Context, actor *internal.Principal, id string) (*Issue, error)
	List(ctx context.Context, f Filter) ([]*Issue, int64, error)
	ListPage(ctx context.Context, f Filter, page, limit int) (*Page, error)
	ListByReporter(ctx context.Context, email string) ([]*Issue, error)
	ListByAssignee(ctx context.Context, email string) ([]*Issue, error)
	UpdateStatus(ctx context.Context, actor *internal.Principal, id string, dto UpdateStatusDTO) (*Issue, error)
	Assign(ctx context.Context, actor *internal.Principal, id string, dto AssignDTO) (*Issue, error)
	Edit(ctx context.Context, actor *internal.Principal, id string, dto EditIssueDTO) (*Issue, error)
	Delete(ctx context.Context, actor *internal.Principal, id string) error
	Upvote(ctx context.Context, actor *internal.Principal, id string) (*Issue, error)
	SetVisibility(ctx context.Context, actor *internal.Principal, id string, dto VisibilityDTO) (*Issue, error)
	SetPriority(ctx context.Context, actor *internal.Principal, id string, dto PriorityDTO) (*Issue, error)
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

// CreateIssue handles POST /issues
func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var dto CreateIssueDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	i, err := h.Service.Create(r.Context(), internal.PrincipalFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, i)
}

// ListIssues handles GET /issues. Without page/limit the full matching set is returned as an array.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}

	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(internal.ErrCodeInvalidStatus, StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed)
	v.Field("priority", f.Priority).OneOf(internal.ErrCodeInvalidPriority, PriorityNormal, PriorityHigh)
	if err := v.Validate(); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if q.Has("page") || q.Has("limit") {
		page, err := h.Service.ListPage(r.Context(), f, transport.QueryInt(r, "page"), transport.QueryInt(r, "limit"))
		if err != nil {
			h.HandleError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, page)
		return
	}

	items, _, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// GetIssue handles GET /issues/{id}
func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	i, err := h.Service.Get(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// ListReporterIssues handles GET /issues/reporter/{email}
func (h *Handler) ListReporterIssues(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByReporter(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// ListAssignedIssues handles GET /issues/assigned/{email}
func (h *Handler) ListAssignedIssues(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByAssignee(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// UpdateStatus handles PATCH /issues/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	dto.Status = strings.TrimSpace(dto.Status)

	i, err := h.Service.UpdateStatus(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// AssignIssue handles PATCH /issues/assign/{id}
func (h *Handler) AssignIssue(w http.ResponseWriter, r *http.Request) {
	var dto AssignDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	i, err := h.Service.Assign(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// EditIssue handles PATCH /issues/edit/{id}
func (h *Handler) EditIssue(w http.ResponseWriter, r *http.Request) {
	var dto EditIssueDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	i, err := h.Service.Edit(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// DeleteIssue handles DELETE /issues/{id}
func (h *Handler) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), internal.PrincipalFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}

// UpvoteIssue handles PATCH /issues/upvote/{id}
func (h *Handler) UpvoteIssue(w http.ResponseWriter, r *http.Request) {
	i, err := h.Service.Upvote(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// SetVisibility handles PATCH /issues/{id}/visibility
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var dto VisibilityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	i, err := h.Service.SetVisibility(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// SetPriority handles PATCH /issues/{id}/priority
func (h *Handler) SetPriority(w http.ResponseWriter, r *http.Request) {
	var dto PriorityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	i, err := h.Service.SetPriority(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}
