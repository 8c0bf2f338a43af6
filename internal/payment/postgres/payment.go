package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	issueDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/issue"
	paymentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/payment"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/civic-issue-tracker/internal/payment"
)

const priorityHigh = "high"

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// BoostIssue flips the boost flags with a conditional update and only then inserts the ledger row,
// so two concurrent boosts produce exactly one payment.
func (r *PaymentRepository) BoostIssue(ctx context.Context, p *paymentDatamodel.Payment) error {
	if p.IssueID == nil {
		return payment.ErrIssueNotFound
	}
	issueID := *p.IssueID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target issueDatamodel.Issue
		if err := tx.Select("id").Where("id = ?", issueID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payment.ErrIssueNotFound
			}
			return err
		}

		res := tx.Model(&issueDatamodel.Issue{}).
			Where("id = ? AND is_boosted = ? AND priority <> ?", issueID, false, priorityHigh).
			Updates(map[string]interface{}{
				"priority":   priorityHigh,
				"is_boosted": true,
				"updated_at": p.Date,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return payment.ErrAlreadyBoosted
		}

		return tx.Create(p).Error
	})
}

func (r *PaymentRepository) RecordPremium(ctx context.Context, p *paymentDatamodel.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(&userDatamodel.User{}).
			Where("email = ?", p.UserEmail).
			Updates(map[string]interface{}{"is_premium": true, "updated_at": time.Now().UTC()}).Error
	})
}

// List returns the whole ledger newest first.
func (r *PaymentRepository) List(ctx context.Context) ([]*paymentDatamodel.Payment, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *PaymentRepository) ListByUser(ctx context.Context, email string) ([]*paymentDatamodel.Payment, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).Where("user_email = ?", email).Order("date DESC").Find(&rows).Error
	return rows, err
}
