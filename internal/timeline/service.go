package timeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	timelineDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/timeline"
)

type Repository interface {
	Insert(ctx context.Context, e *timelineDatamodel.Entry) error
	ListByIssue(ctx context.Context, issueID string) ([]*timelineDatamodel.Entry, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Append records one entry. A failed write is reported as unexpected and never dropped silently.
func (s *Service) Append(ctx context.Context, issueID, status, message, actorEmail string) (*Entry, error) {
	if issueID == "" || status == "" || message == "" || actorEmail == "" {
		return nil, internal.NewValidationError("timeline entry requires issue, status, message and actor", internal.ErrCodeValidationFailed)
	}

	e := &Entry{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		Status:    status,
		Message:   message,
		UpdatedBy: actorEmail,
		Time:      s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, ToDataModel(e)); err != nil {
		s.logger.Error("failed to append timeline entry", "error", err, "issue_id", issueID, "status", status)
		return nil, &internal.AppError{
			Type:       internal.ErrorTypeUnexpected,
			Code:       internal.ErrCodeAuditWrite,
			Message:    "failed to record timeline entry",
			StatusCode: http.StatusInternalServerError,
			Cause:      err,
		}
	}

	s.logger.Debug("timeline entry recorded", "issue_id", issueID, "status", status, "updated_by", actorEmail)
	return e, nil
}

// ListByIssue returns the entries for an issue oldest first. Entries of deleted issues remain readable.
func (s *Service) ListByIssue(ctx context.Context, issueID string) ([]*Entry, error) {
	rows, err := s.repo.ListByIssue(ctx, issueID)
	if err != nil {
		s.logger.Error("failed to list timeline", "error", err, "issue_id", issueID)
		return nil, internal.NewUnexpectedError("failed to list timeline", err)
	}
	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}
