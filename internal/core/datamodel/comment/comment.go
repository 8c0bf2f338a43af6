package comment

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36"`
	IssueID   string    `gorm:"column:issue_id;size:36;not null;index"`
	Text      string    `gorm:"column:text;not null"`
	UserEmail string    `gorm:"column:user_email;not null"`
	Time      time.Time `gorm:"column:time;not null"`
}
