package timeline

import "time"

// Entry has no foreign key to issues: entries outlive the issue they describe.
type Entry struct {
	ID        string    `gorm:"primaryKey;size:36"`
	IssueID   string    `gorm:"column:issue_id;size:36;not null;index"`
	Status    string    `gorm:"column:status;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	UpdatedBy string    `gorm:"column:updated_by;not null;index"`
	Time      time.Time `gorm:"column:time;not null"`
}

func (Entry) TableName() string {
	return "timeline_entries"
}
