package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/civic-issue-tracker/internal/stats"
)

const (
	topLimit           = 10
	recentResolvedSize = 6

	statusPending    = "pending"
	statusInProgress = "in-progress"
	statusResolved   = "resolved"
	statusClosed     = "closed"
	priorityHigh     = "high"
)

// StatsRepository runs the read-only rollups with plain SQL. Queries are written with ? placeholders
// and rebound for the connected driver.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type labelCount struct {
	Label string `db:"label"`
	Count int64  `db:"count"`
}

func (r *StatsRepository) Admin(ctx context.Context) (*stats.AdminStats, error) {
	out := &stats.AdminStats{}

	scalars := []struct {
		dst   *int64
		query string
		args  []interface{}
	}{
		{&out.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&out.TotalIssues, `SELECT COUNT(*) FROM issues`, nil},
		{&out.TotalRevenue, `SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM payments`, nil},
		{&out.PremiumUsers, `SELECT COUNT(*) FROM users WHERE is_premium = ?`, []interface{}{true}},
		{&out.BlockedUsers, `SELECT COUNT(*) FROM users WHERE is_blocked = ?`, []interface{}{true}},
		{&out.BoostedIssues, `SELECT COUNT(*) FROM issues WHERE is_boosted = ?`, []interface{}{true}},
	}
	for _, s := range scalars {
		if err := r.db.GetContext(ctx, s.dst, r.db.Rebind(s.query), s.args...); err != nil {
			return nil, fmt.Errorf("stats scalar %q: %w", s.query, err)
		}
	}

	var err error
	if out.IssuesByStatus, err = r.grouped(ctx, `SELECT status AS label, COUNT(*) AS count FROM issues GROUP BY status`); err != nil {
		return nil, err
	}
	if out.IssuesByPriority, err = r.grouped(ctx, `SELECT priority AS label, COUNT(*) AS count FROM issues GROUP BY priority`); err != nil {
		return nil, err
	}
	if out.UsersByRole, err = r.grouped(ctx, `SELECT role AS label, COUNT(*) AS count FROM users GROUP BY role`); err != nil {
		return nil, err
	}
	if out.RevenueByPurpose, err = r.grouped(ctx, `SELECT purpose AS label, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS count FROM payments GROUP BY purpose`); err != nil {
		return nil, err
	}

	out.TopStaff = []stats.StaffCount{}
	if err := r.db.SelectContext(ctx, &out.TopStaff, r.db.Rebind(`
		SELECT updated_by AS email, COUNT(*) AS resolved
		FROM timeline_entries
		WHERE status = ?
		GROUP BY updated_by
		ORDER BY resolved DESC, email ASC
		LIMIT ?`), statusResolved, topLimit); err != nil {
		return nil, fmt.Errorf("stats top staff: %w", err)
	}

	out.TopReporters = []stats.ReporterCount{}
	if err := r.db.SelectContext(ctx, &out.TopReporters, r.db.Rebind(`
		SELECT reporter_email AS email, COUNT(*) AS issues
		FROM issues
		GROUP BY reporter_email
		ORDER BY issues DESC, email ASC
		LIMIT ?`), topLimit); err != nil {
		return nil, fmt.Errorf("stats top reporters: %w", err)
	}

	out.RecentlyResolved = []stats.ResolvedIssue{}
	if err := r.db.SelectContext(ctx, &out.RecentlyResolved, r.db.Rebind(`
		SELECT id, title, category, location, assigned_staff, updated_at
		FROM issues
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT ?`), statusResolved, recentResolvedSize); err != nil {
		return nil, fmt.Errorf("stats recently resolved: %w", err)
	}

	return out, nil
}

func (r *StatsRepository) Citizen(ctx context.Context, email string) (*stats.CitizenStats, error) {
	out := &stats.CitizenStats{}
	err := r.db.GetContext(ctx, out, r.db.Rebind(`
		SELECT
			COUNT(*) AS total,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS pending,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS in_progress,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS resolved,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS closed,
			CAST(COALESCE(SUM(upvotes), 0) AS BIGINT) AS upvotes,
			CAST(COALESCE(SUM(CASE WHEN is_boosted = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS boosted
		FROM issues
		WHERE reporter_email = ?`),
		statusPending, statusInProgress, statusResolved, statusClosed, true, email)
	if err != nil {
		return nil, fmt.Errorf("stats citizen issues: %w", err)
	}

	if err := r.db.GetContext(ctx, &out.PaymentsTotal, r.db.Rebind(
		`SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM payments WHERE user_email = ?`), email); err != nil {
		return nil, fmt.Errorf("stats citizen payments: %w", err)
	}

	out.Email = email
	return out, nil
}

func (r *StatsRepository) Staff(ctx context.Context, email string) (*stats.StaffStats, error) {
	out := &stats.StaffStats{}
	err := r.db.GetContext(ctx, out, r.db.Rebind(`
		SELECT
			COUNT(*) AS assigned,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS in_progress,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS resolved,
			CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS closed,
			CAST(COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS high_priority
		FROM issues
		WHERE assigned_staff = ?`),
		statusInProgress, statusResolved, statusClosed, priorityHigh, email)
	if err != nil {
		return nil, fmt.Errorf("stats staff issues: %w", err)
	}

	if err := r.db.GetContext(ctx, &out.ResolvedByMe, r.db.Rebind(
		`SELECT COUNT(*) FROM timeline_entries WHERE status = ? AND updated_by = ?`), statusResolved, email); err != nil {
		return nil, fmt.Errorf("stats staff timeline: %w", err)
	}

	out.Email = email
	return out, nil
}

func (r *StatsRepository) grouped(ctx context.Context, query string) (map[string]int64, error) {
	var rows []labelCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query)); err != nil {
		return nil, fmt.Errorf("stats grouped %q: %w", query, err)
	}
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Label] = row.Count
	}
	return m, nil
}
