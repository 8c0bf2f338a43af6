package comment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	commentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/comment"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
)

type Repository interface {
	Create(ctx context.Context, c *commentDatamodel.Comment) error
	GetByID(ctx context.Context, id string) (*commentDatamodel.Comment, error)
	ListByIssue(ctx context.Context, issueID string) ([]*commentDatamodel.Comment, error)
	Delete(ctx context.Context, id string) error
}

// IssueReader checks that the commented issue exists and is visible to the author.
type IssueReader interface {
	Get(ctx context.Context, actor *internal.Principal, id string) (*issue.Issue, error)
}

type Service struct {
	repo   Repository
	issues IssueReader
	logger *slog.Logger
}

func NewService(repo Repository, issues IssueReader, logger *slog.Logger) *Service {
	return &Service{repo: repo, issues: issues, logger: logger}
}

func (s *Service) Create(ctx context.Context, actor *internal.Principal, dto CreateCommentDTO) (*Comment, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth(), auth.RequireNotBlocked()); err != nil {
		return nil, err
	}
	dto.Text = strings.TrimSpace(dto.Text)
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.issues.Get(ctx, actor, dto.IssueID); err != nil {
		if internal.IsNotFound(err) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}

	row := &commentDatamodel.Comment{
		ID:        uuid.NewString(),
		IssueID:   dto.IssueID,
		Text:      dto.Text,
		UserEmail: actor.Email,
		Time:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create comment", "error", err, "issue_id", dto.IssueID)
		return nil, internal.NewUnexpectedError("failed to create comment", err)
	}

	s.logger.Info("comment added", "comment_id", row.ID, "issue_id", row.IssueID, "user_email", actor.Email)
	return FromDataModel(row), nil
}

func (s *Service) ListByIssue(ctx context.Context, issueID string) ([]*Comment, error) {
	rows, err := s.repo.ListByIssue(ctx, issueID)
	if err != nil {
		s.logger.Error("failed to list comments", "error", err, "issue_id", issueID)
		return nil, internal.NewUnexpectedError("failed to list comments", err)
	}
	comments := make([]*Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, FromDataModel(row))
	}
	return comments, nil
}

// Delete removes a comment on behalf of its author or an admin.
func (s *Service) Delete(ctx context.Context, actor *internal.Principal, id string) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if internal.IsNotFound(err) {
			return ErrNotFound
		}
		return internal.NewUnexpectedError("failed to load comment", err)
	}
	if err := auth.Evaluate(actor, auth.RequireOwnerOrRole(row.UserEmail, internal.RoleAdmin)); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if internal.IsNotFound(err) {
			return ErrNotFound
		}
		s.logger.Error("failed to delete comment", "error", err, "comment_id", id)
		return internal.NewUnexpectedError("failed to delete comment", err)
	}
	s.logger.Info("comment deleted", "comment_id", id, "user_email", actor.Email)
	return nil
}
