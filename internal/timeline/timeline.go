package timeline

import (
	"time"

	timelineDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/timeline"
)

// Entry is one immutable audit record for an issue. Entries are never edited or deleted.
type Entry struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	UpdatedBy string    `json:"updatedBy"`
	Time      time.Time `json:"time"`
}

func ToDataModel(e *Entry) *timelineDatamodel.Entry {
	return &timelineDatamodel.Entry{
		ID:        e.ID,
		IssueID:   e.IssueID,
		Status:    e.Status,
		Message:   e.Message,
		UpdatedBy: e.UpdatedBy,
		Time:      e.Time,
	}
}

func FromDataModel(e *timelineDatamodel.Entry) *Entry {
	return &Entry{
		ID:        e.ID,
		IssueID:   e.IssueID,
		Status:    e.Status,
		Message:   e.Message,
		UpdatedBy: e.UpdatedBy,
		Time:      e.Time,
	}
}
