package issue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	issueDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/issue"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
	"github.com/frahmantamala/civic-issue-tracker/internal/user"
)

const maxPage = 1 << 20

type Repository interface {
	CreateWithQuota(ctx context.Context, row *issueDatamodel.Issue, quota int) error
	GetByID(ctx context.Context, id string) (*issueDatamodel.Issue, error)
	List(ctx context.Context, f Filter) ([]*issueDatamodel.Issue, int64, error)
	ListByReporter(ctx context.Context, email string) ([]*issueDatamodel.Issue, error)
	ListByAssignee(ctx context.Context, email string) ([]*issueDatamodel.Issue, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
	Assign(ctx context.Context, id, staffEmail string) error
	Delete(ctx context.Context, id, requiredStatus string) (bool, error)
	AddUpvote(ctx context.Context, id, email string) error
}

// TimelineRecorder appends audit entries for lifecycle mutations.
type TimelineRecorder interface {
	Append(ctx context.Context, issueID, status, message, actorEmail string) (*timeline.Entry, error)
}

type StaffDirectory interface {
	FindStaff(ctx context.Context, email string) (*user.User, error)
}

type Service struct {
	repo     Repository
	timeline TimelineRecorder
	staff    StaffDirectory
	cfg      internal.IssueConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, tl TimelineRecorder, staff StaffDirectory, cfg internal.IssueConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		timeline: tl,
		staff:    staff,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Create reports a new issue for actor. Non-premium reporters are limited to the configured number of open issues.
func (s *Service) Create(ctx context.Context, actor *internal.Principal, dto CreateIssueDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth(), auth.RequireNotBlocked()); err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("issue validation failed", "error", err, "user_email", actor.Email)
		return nil, err
	}

	quota := s.cfg.OpenQuota
	if actor.IsPremium {
		quota = 0
	}

	now := s.now().UTC()
	row := &issueDatamodel.Issue{
		ID:            uuid.NewString(),
		ReporterEmail: actor.Email,
		Title:         dto.Title,
		Description:   dto.Description,
		Category:      dto.Category,
		Location:      dto.Location,
		Image:         dto.Image,
		Status:        StatusPending,
		Priority:      PriorityNormal,
		ReportedAt:    now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateWithQuota(ctx, row, quota); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			s.logger.Warn("issue creation rejected", "error", err, "user_email", actor.Email)
			return nil, err
		}
		s.logger.Error("failed to create issue", "error", err, "user_email", actor.Email)
		return nil, internal.NewUnexpectedError("failed to create issue", err)
	}

	s.logger.Info("issue reported", "issue_id", row.ID, "user_email", actor.Email, "category", row.Category)

	if _, err := s.timeline.Append(ctx, row.ID, StatusPending, "Issue reported", actor.Email); err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Get returns one issue. Hidden issues look absent to callers who may not see them.
func (s *Service) Get(ctx context.Context, actor *internal.Principal, id string) (*Issue, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !i.VisibleTo(actor) {
		return nil, ErrNotFound
	}
	return i, nil
}

// List returns visible issues matching f and the total number of matches.
func (s *Service) List(ctx context.Context, f Filter) ([]*Issue, int64, error) {
	if f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.MaxPageSize
	}
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("failed to list issues", "error", err)
		return nil, 0, internal.NewUnexpectedError("failed to list issues", err)
	}
	return fromRows(rows), total, nil
}

// ListPage returns one page of visible issues. limit falls back to the default page size and is capped at the
// maximum; page is clamped to [1, maxPage] so the offset cannot overflow.
func (s *Service) ListPage(ctx context.Context, f Filter, page, limit int) (*Page, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if limit <= 0 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	f.Limit = limit
	f.Offset = (page - 1) * limit
	items, total, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{Total: total, Page: page, Limit: limit, Items: items}, nil
}

func (s *Service) ListByReporter(ctx context.Context, email string) ([]*Issue, error) {
	rows, err := s.repo.ListByReporter(ctx, email)
	if err != nil {
		s.logger.Error("failed to list reporter issues", "error", err, "reporter_email", email)
		return nil, internal.NewUnexpectedError("failed to list issues", err)
	}
	return fromRows(rows), nil
}

func (s *Service) ListByAssignee(ctx context.Context, email string) ([]*Issue, error) {
	rows, err := s.repo.ListByAssignee(ctx, email)
	if err != nil {
		s.logger.Error("failed to list assigned issues", "error", err, "staff_email", email)
		return nil, internal.NewUnexpectedError("failed to list issues", err)
	}
	return fromRows(rows), nil
}

// UpdateStatus drives the lifecycle. Citizens never may; staff only on issues assigned to them and only
// along the forward flow; admins may set any status.
func (s *Service) UpdateStatus(ctx context.Context, actor *internal.Principal, id string, dto UpdateStatusDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case internal.RoleAdmin:
		if err := s.update(ctx, id, map[string]interface{}{"status": dto.Status}); err != nil {
			return nil, err
		}
	case internal.RoleStaff:
		if !current.IsAssignedTo(actor.Email) {
			s.logger.Warn("status update by unassigned staff", "issue_id", id, "user_email", actor.Email)
			return nil, ErrNotAssignedStaff
		}
		if !CanStaffTransition(current.Status, dto.Status) {
			return nil, internal.NewInvalidTransitionError(current.Status, dto.Status, AllowedNext(current.Status))
		}
		moved, err := s.repo.TransitionStatus(ctx, id, current.Status, dto.Status)
		if err != nil {
			s.logger.Error("failed to transition issue", "error", err, "issue_id", id)
			return nil, internal.NewUnexpectedError("failed to update issue status", err)
		}
		if !moved {
			// lost a race; report against the status that won
			latest, err := s.load(ctx, id)
			if err != nil {
				return nil, err
			}
			return nil, internal.NewInvalidTransitionError(latest.Status, dto.Status, AllowedNext(latest.Status))
		}
	default:
		return nil, ErrStatusForbidden
	}

	s.logger.Info("issue status changed", "issue_id", id, "from", current.Status, "to", dto.Status, "user_email", actor.Email)

	message := dto.Note
	if message == "" {
		message = fmt.Sprintf("Status changed to %s", dto.Status)
	}
	if _, err := s.timeline.Append(ctx, id, dto.Status, message, actor.Email); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Assign hands the issue to a staff member, advancing it from pending to in-progress.
func (s *Service) Assign(ctx context.Context, actor *internal.Principal, id string, dto AssignDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireRole(internal.RoleAdmin)); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.staff.FindStaff(ctx, dto.StaffEmail); err != nil {
		if internal.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Assign(ctx, id, dto.StaffEmail); err != nil {
		if internal.IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to assign issue", "error", err, "issue_id", id)
		return nil, internal.NewUnexpectedError("failed to assign issue", err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("issue assigned", "issue_id", id, "staff_email", dto.StaffEmail, "user_email", actor.Email)

	if _, err := s.timeline.Append(ctx, id, updated.Status, fmt.Sprintf("Issue assigned to %s", dto.StaffEmail), actor.Email); err != nil {
		return nil, err
	}
	return updated, nil
}

// Edit overwrites descriptive fields. Reporter only, in any status, and deliberately not audited.
func (s *Service) Edit(ctx context.Context, actor *internal.Principal, id string, dto EditIssueDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Email != current.ReporterEmail {
		return nil, ErrNotReporter
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.update(ctx, id, dto.Fields()); err != nil {
		return nil, err
	}
	s.logger.Info("issue edited", "issue_id", id, "user_email", actor.Email)
	return s.load(ctx, id)
}

// Delete removes the issue. Reporters may delete only while pending; admins always. The audit entry outlives the issue.
func (s *Service) Delete(ctx context.Context, actor *internal.Principal, id string) error {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	requiredStatus := ""
	if actor.Role != internal.RoleAdmin {
		if actor.Email != current.ReporterEmail {
			return internal.ErrNotOwner
		}
		if current.Status != StatusPending {
			return ErrDeleteForbidden
		}
		requiredStatus = StatusPending
	}

	deleted, err := s.repo.Delete(ctx, id, requiredStatus)
	if err != nil {
		s.logger.Error("failed to delete issue", "error", err, "issue_id", id)
		return internal.NewUnexpectedError("failed to delete issue", err)
	}
	if !deleted {
		if requiredStatus != "" {
			return ErrDeleteForbidden
		}
		return ErrNotFound
	}

	s.logger.Info("issue deleted", "issue_id", id, "user_email", actor.Email)

	if _, err := s.timeline.Append(ctx, id, StatusDeleted, fmt.Sprintf("Issue deleted by %s", actor.Email), actor.Email); err != nil {
		return err
	}
	return nil
}

// Upvote adds actor's vote. Reporters cannot vote for their own issue and nobody votes twice.
func (s *Service) Upvote(ctx context.Context, actor *internal.Principal, id string) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.VisibleTo(actor) {
		return nil, ErrNotFound
	}
	if current.ReporterEmail == actor.Email {
		return nil, ErrOwnIssueUpvote
	}
	if current.HasUpvoted(actor.Email) {
		return nil, ErrDuplicateVote
	}

	if err := s.repo.AddUpvote(ctx, id, actor.Email); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to upvote issue", "error", err, "issue_id", id)
		return nil, internal.NewUnexpectedError("failed to upvote issue", err)
	}

	s.logger.Info("issue upvoted", "issue_id", id, "user_email", actor.Email)
	return s.load(ctx, id)
}

// SetVisibility hides or reveals an issue from public listings.
func (s *Service) SetVisibility(ctx context.Context, actor *internal.Principal, id string, dto VisibilityDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireRole(internal.RoleAdmin)); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.update(ctx, id, map[string]interface{}{"is_hidden": *dto.IsHidden}); err != nil {
		return nil, err
	}

	action, message := "visible", "Issue made visible"
	if *dto.IsHidden {
		action, message = "hidden", "Issue hidden from public listings"
	}
	if _, err := s.timeline.Append(ctx, id, action, message, actor.Email); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// SetPriority is the admin path for changing priority outside of a paid boost.
func (s *Service) SetPriority(ctx context.Context, actor *internal.Principal, id string, dto PriorityDTO) (*Issue, error) {
	if err := auth.Evaluate(actor, auth.RequireRole(internal.RoleAdmin)); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.update(ctx, id, map[string]interface{}{"priority": dto.Priority}); err != nil {
		return nil, err
	}
	if _, err := s.timeline.Append(ctx, id, "priority", fmt.Sprintf("Priority set to %s", dto.Priority), actor.Email); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*Issue, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if internal.IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to load issue", "error", err, "issue_id", id)
		return nil, internal.NewUnexpectedError("failed to load issue", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := s.repo.Update(ctx, id, fields); err != nil {
		if internal.IsNotFound(err) {
			return ErrNotFound
		}
		s.logger.Error("failed to update issue", "error", err, "issue_id", id)
		return internal.NewUnexpectedError("failed to update issue", err)
	}
	return nil
}

func fromRows(rows []*issueDatamodel.Issue) []*Issue {
	issues := make([]*Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, FromDataModel(row))
	}
	return issues
}
