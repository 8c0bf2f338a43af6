package payment

import (
	"time"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	paymentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/payment"
)

const (
	PurposeIssueBoost = "issue_boost"
	PurposePremium    = "premium"
)

var (
	ErrIssueNotFound  = internal.NewNotFoundError("issue not found", internal.ErrCodeIssueNotFound)
	ErrAlreadyBoosted = internal.NewAlreadyBoostedError("issue is already boosted or high priority")
)

// Payment is one ledger entry as exposed over the API.
type Payment struct {
	ID            string                 `json:"id"`
	IssueID       *string                `json:"issueId"`
	UserEmail     string                 `json:"userEmail"`
	TransactionID string                 `json:"transactionId"`
	Amount        int64                  `json:"amount"`
	Currency      string                 `json:"currency"`
	Purpose       string                 `json:"purpose"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Date          time.Time              `json:"date"`
}

// Intent is what the client needs to complete a payment with the provider.
type Intent struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"intentId"`
}

func FromDataModel(p *paymentDatamodel.Payment) *Payment {
	return &Payment{
		ID:            p.ID,
		IssueID:       p.IssueID,
		UserEmail:     p.UserEmail,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Purpose:       p.Purpose,
		Metadata:      p.Metadata,
		Date:          p.Date,
	}
}

func fromRows(rows []*paymentDatamodel.Payment) []*Payment {
	payments := make([]*Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, FromDataModel(row))
	}
	return payments
}
