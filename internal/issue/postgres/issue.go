package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	issueDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/issue"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
)

// IssueRepository implements issue.Repository using GORM
type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// CreateWithQuota inserts row unless its reporter already has quota open issues. A quota of 0 disables the check.
// The reporter's user row is touched first so concurrent creations by the same reporter serialize on its lock.
func (r *IssueRepository) CreateWithQuota(ctx context.Context, row *issueDatamodel.Issue, quota int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if quota > 0 {
			if err := tx.Model(&userDatamodel.User{}).
				Where("email = ?", row.ReporterEmail).
				Update("updated_at", time.Now()).Error; err != nil {
				return err
			}

			var open int64
			if err := tx.Model(&issueDatamodel.Issue{}).
				Where("reporter_email = ?", row.ReporterEmail).
				Where("status NOT IN ?", []string{issue.StatusClosed, issue.StatusDeleted}).
				Count(&open).Error; err != nil {
				return err
			}
			if open >= int64(quota) {
				return issue.ErrQuotaExceeded
			}
		}
		return tx.Omit("Upvoters").Create(row).Error
	})
}

func (r *IssueRepository) GetByID(ctx context.Context, id string) (*issueDatamodel.Issue, error) {
	var row issueDatamodel.Issue
	err := r.db.WithContext(ctx).Preload("Upvoters", orderUpvotes).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, issue.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// List returns visible issues matching f, high priority first then newest, plus the total match count.
func (r *IssueRepository) List(ctx context.Context, f issue.Filter) ([]*issueDatamodel.Issue, int64, error) {
	scope := filterScope(f)

	var total int64
	if err := r.db.WithContext(ctx).Model(&issueDatamodel.Issue{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Upvoters", orderUpvotes).
		Order("CASE WHEN priority = 'high' THEN 0 ELSE 1 END").
		Order("reported_at DESC").
		Order("id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []*issueDatamodel.Issue
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *IssueRepository) ListByReporter(ctx context.Context, email string) ([]*issueDatamodel.Issue, error) {
	return r.listWhere(ctx, "reporter_email = ?", email)
}

func (r *IssueRepository) ListByAssignee(ctx context.Context, email string) ([]*issueDatamodel.Issue, error) {
	return r.listWhere(ctx, "assigned_staff = ?", email)
}

func (r *IssueRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]*issueDatamodel.Issue, error) {
	var rows []*issueDatamodel.Issue
	err := r.db.WithContext(ctx).
		Preload("Upvoters", orderUpvotes).
		Where(query, args...).
		Order("reported_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *IssueRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&issueDatamodel.Issue{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return issue.ErrNotFound
	}
	return nil
}

// TransitionStatus moves the issue to `to` only if it is still in `from`.
func (r *IssueRepository) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&issueDatamodel.Issue{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Assign sets the assignee and advances a pending issue to in-progress in the same statement.
func (r *IssueRepository) Assign(ctx context.Context, id, staffEmail string) error {
	return r.Update(ctx, id, map[string]interface{}{
		"assigned_staff": staffEmail,
		"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
			issue.StatusPending, issue.StatusInProgress),
	})
}

// Delete removes the issue and its upvotes. A non-empty requiredStatus makes the delete conditional on it.
func (r *IssueRepository) Delete(ctx context.Context, id, requiredStatus string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if requiredStatus != "" {
			q = q.Where("status = ?", requiredStatus)
		}
		res := q.Delete(&issueDatamodel.Issue{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("issue_id = ?", id).Delete(&issueDatamodel.Upvote{}).Error
	})
	return deleted, err
}

// AddUpvote records the vote and bumps the counter atomically. Repeat votes are rejected by the unique
// (issue_id, user_email) index, so concurrent duplicates cannot both land.
func (r *IssueRepository) AddUpvote(ctx context.Context, id, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&issueDatamodel.Upvote{IssueID: id, UserEmail: email}).Error; err != nil {
			if isUniqueViolation(err) {
				return issue.ErrDuplicateVote
			}
			return err
		}

		res := tx.Model(&issueDatamodel.Issue{}).
			Where("id = ?", id).
			Update("upvotes", gorm.Expr("upvotes + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return issue.ErrNotFound
		}
		return nil
	})
}

func filterScope(f issue.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_hidden = ?", false)
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Priority != "" {
			db = db.Where("priority = ?", f.Priority)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
			db = db.Where(
				`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern,
			)
		}
		return db
	}
}

func orderUpvotes(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
