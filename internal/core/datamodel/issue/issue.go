package issue

import "time"

type Issue struct {
	ID            string    `gorm:"primaryKey;size:36"`
	ReporterEmail string    `gorm:"column:reporter_email;not null;index"`
	Title         string    `gorm:"column:title;not null"`
	Description   string    `gorm:"column:description"`
	Category      string    `gorm:"column:category;index"`
	Location      string    `gorm:"column:location"`
	Image         string    `gorm:"column:image"`
	Status        string    `gorm:"column:status;not null;index"`
	Priority      string    `gorm:"column:priority;not null"`
	AssignedStaff *string   `gorm:"column:assigned_staff;index"`
	Upvotes       int       `gorm:"column:upvotes;not null;default:0"`
	IsHidden      bool      `gorm:"column:is_hidden;not null;default:false"`
	IsBoosted     bool      `gorm:"column:is_boosted;not null;default:false"`
	ReportedAt    time.Time `gorm:"column:reported_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Upvoters []Upvote `gorm:"foreignKey:IssueID"`
}

// Upvote is one row per (issue, voter); the composite unique index rejects repeat votes.
type Upvote struct {
	ID        int64     `gorm:"primaryKey"`
	IssueID   string    `gorm:"column:issue_id;size:36;not null;uniqueIndex:idx_issue_upvotes_voter"`
	UserEmail string    `gorm:"column:user_email;not null;uniqueIndex:idx_issue_upvotes_voter"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Upvote) TableName() string {
	return "issue_upvotes"
}
