package payment

import (
	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/core/common/validation"
)

// CreateIntentDTO is the body of POST /create-payment-intent.
type CreateIntentDTO struct {
	Amount  int64  `json:"amount"`
	Purpose string `json:"purpose"`
	IssueID string `json:"issueId"`
}

func (d CreateIntentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("purpose", d.Purpose).Required().OneOf(internal.ErrCodeInvalidPurpose, PurposeIssueBoost, PurposePremium)
	if d.Purpose == PurposeIssueBoost {
		v.Field("issueId", d.IssueID).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ConfirmDTO carries a provider transaction id the client obtained after completing an intent.
// It is the body of both the boost and the premium verification routes.
type ConfirmDTO struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
}

func (d ConfirmDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("transactionId", d.TransactionID).Required().MaxLength(255)
	v.Field("amount", d.Amount).Positive(internal.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
