package stats

import "time"

// AdminStats is the dashboard rollup. Each figure comes from its own query, so the numbers in one
// response are not guaranteed to describe the same instant.
type AdminStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalIssues      int64            `json:"totalIssues"`
	TotalRevenue     int64            `json:"totalRevenue"`
	PremiumUsers     int64            `json:"premiumUsers"`
	BlockedUsers     int64            `json:"blockedUsers"`
	BoostedIssues    int64            `json:"boostedIssues"`
	IssuesByStatus   map[string]int64 `json:"issuesByStatus"`
	IssuesByPriority map[string]int64 `json:"issuesByPriority"`
	UsersByRole      map[string]int64 `json:"usersByRole"`
	RevenueByPurpose map[string]int64 `json:"revenueByPurpose"`
	TopStaff         []StaffCount     `json:"topStaff"`
	TopReporters     []ReporterCount  `json:"topReporters"`
	RecentlyResolved []ResolvedIssue  `json:"recentlyResolved"`
}

type StaffCount struct {
	Email    string `json:"email" db:"email"`
	Resolved int64  `json:"resolved" db:"resolved"`
}

type ReporterCount struct {
	Email  string `json:"email" db:"email"`
	Issues int64  `json:"issues" db:"issues"`
}

type ResolvedIssue struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Category      string    `json:"category" db:"category"`
	Location      string    `json:"location" db:"location"`
	AssignedStaff *string   `json:"assignedStaff" db:"assigned_staff"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// CitizenStats summarises one reporter's issues and spend.
type CitizenStats struct {
	Email           string `json:"email" db:"-"`
	Total           int64  `json:"total" db:"total"`
	Pending         int64  `json:"pending" db:"pending"`
	InProgress      int64  `json:"inProgress" db:"in_progress"`
	Resolved        int64  `json:"resolved" db:"resolved"`
	Closed          int64  `json:"closed" db:"closed"`
	UpvotesReceived int64  `json:"upvotesReceived" db:"upvotes"`
	Boosted         int64  `json:"boosted" db:"boosted"`
	PaymentsTotal   int64  `json:"paymentsTotal" db:"-"`
}

// StaffStats summarises one staff member's workload.
type StaffStats struct {
	Email        string `json:"email" db:"-"`
	Assigned     int64  `json:"assigned" db:"assigned"`
	InProgress   int64  `json:"inProgress" db:"in_progress"`
	Resolved     int64  `json:"resolved" db:"resolved"`
	Closed       int64  `json:"closed" db:"closed"`
	HighPriority int64  `json:"highPriority" db:"high_priority"`
	ResolvedByMe int64  `json:"resolvedByMe" db:"-"`
}
