package payment

import (
	"time"

	"gorm.io/datatypes"
)

// Payment is an append-only ledger row. IssueID is nil for premium purchases.
type Payment struct {
	ID            string            `gorm:"primaryKey;size:36"`
	IssueID       *string           `gorm:"column:issue_id;size:36;index"`
	UserEmail     string            `gorm:"column:user_email;not null;index"`
	TransactionID string            `gorm:"column:transaction_id;not null"`
	Amount        int64             `gorm:"column:amount;not null"`
	Currency      string            `gorm:"column:currency;not null"`
	Purpose       string            `gorm:"column:purpose;not null"`
	Metadata      datatypes.JSONMap `gorm:"column:metadata"`
	Date          time.Time         `gorm:"column:date;not null"`
}
