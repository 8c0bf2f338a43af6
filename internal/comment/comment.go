package comment

import (
	"time"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	commentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/comment"
	"github.com/frahmantamala/civic-issue-tracker/internal/core/common/validation"
)

type Comment struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	Text      string    `json:"text"`
	UserEmail string    `json:"userEmail"`
	Time      time.Time `json:"time"`
}

var (
	ErrNotFound      = internal.NewNotFoundError("comment not found", internal.ErrCodeCommentNotFound)
	ErrIssueNotFound = internal.NewNotFoundError("issue not found", internal.ErrCodeIssueNotFound)
)

type CreateCommentDTO struct {
	IssueID string `json:"issueId"`
	Text    string `json:"text"`
}

func (d CreateCommentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("issueId", d.IssueID).Required()
	v.Field("text", d.Text).Required().MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func FromDataModel(c *commentDatamodel.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		IssueID:   c.IssueID,
		Text:      c.Text,
		UserEmail: c.UserEmail,
		Time:      c.Time,
	}
}
