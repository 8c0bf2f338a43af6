package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
)

type ServiceAPI interface {
	CreateIntent(ctx context.Context, actor *internal.Principal, dto CreateIntentDTO) (*Intent, error)
	Boost(ctx context.Context, actor *internal.Principal, issueID string, dto ConfirmDTO) (*Payment, error)
	VerifyPremium(ctx context.Context, actor *internal.Principal, dto ConfirmDTO) (*Payment, error)
	List(ctx context.Context) ([]*Payment, error)
	ListByUser(ctx context.Context, email string) ([]*Payment, error)
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

// CreatePaymentIntent handles POST /create-payment-intent
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var dto CreateIntentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	intent, err := h.Service.CreateIntent(r.Context(), internal.PrincipalFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, intent)
}

// BoostIssue handles POST /issues/{id}/boost
func (h *Handler) BoostIssue(w http.ResponseWriter, r *http.Request) {
	var dto ConfirmDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	p, err := h.Service.Boost(r.Context(), internal.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// VerifyPremium handles POST /payment/premium/verify
func (h *Handler) VerifyPremium(w http.ResponseWriter, r *http.Request) {
	var dto ConfirmDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	p, err := h.Service.VerifyPremium(r.Context(), internal.PrincipalFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"isPremium": true, "payment": p})
}

// ListPayments handles GET /payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// ListUserPayments handles GET /payments/{email}
func (h *Handler) ListUserPayments(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByUser(r.Context(), transport.PathEmail(r, "email"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}
