package issue

import (
	"time"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	issueDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/issue"
)

const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
	// StatusDeleted only ever appears on timeline entries.
	StatusDeleted = "deleted"

	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// staffTransitions is the forward flow an assigned staff member may drive. Admins bypass it.
var staffTransitions = map[string][]string{
	StatusPending:    {StatusInProgress},
	StatusAssigned:   {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {StatusClosed},
}

// settableStatuses are the statuses a status update may target.
var settableStatuses = []string{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

type Issue struct {
	ID            string    `json:"id"`
	ReporterEmail string    `json:"reporterEmail"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Image         string    `json:"image"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	AssignedStaff *string   `json:"assignedStaff"`
	Upvotes       int       `json:"upvotes"`
	Upvoters      []string  `json:"upvoters"`
	IsHidden      bool      `json:"isHidden"`
	IsBoosted     bool      `json:"isBoosted"`
	ReportedAt    time.Time `json:"reportedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var (
	ErrNotFound         = internal.NewNotFoundError("issue not found", internal.ErrCodeIssueNotFound)
	ErrStaffNotFound    = internal.NewNotFoundError("staff member not found", internal.ErrCodeStaffNotFound)
	ErrQuotaExceeded    = internal.NewQuotaExceededError("open issue quota reached; upgrade to premium to report more")
	ErrDuplicateVote    = internal.NewDuplicateVoteError("you have already upvoted this issue")
	ErrOwnIssueUpvote   = internal.NewForbiddenError("you cannot upvote your own issue", internal.ErrCodeOwnIssueUpvote)
	ErrAlreadyBoosted   = internal.NewAlreadyBoostedError("issue is already boosted")
	ErrNotAssignedStaff = internal.NewForbiddenError("only the assigned staff member can update this issue", internal.ErrCodeNotAssignedStaff)
	ErrStatusForbidden  = internal.NewForbiddenError("citizens cannot change issue status", internal.ErrCodeStatusForbidden)
	ErrDeleteForbidden  = internal.NewForbiddenError("only pending issues can be deleted by their reporter", internal.ErrCodeDeleteForbidden)
	ErrNotReporter      = internal.NewForbiddenError("only the reporter can edit this issue", internal.ErrCodeNotOwner)
)

// AllowedNext lists the statuses staff may move an issue to from status.
func AllowedNext(status string) []string {
	next := staffTransitions[status]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

func CanStaffTransition(from, to string) bool {
	for _, s := range staffTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (i *Issue) IsAssignedTo(email string) bool {
	return i.AssignedStaff != nil && *i.AssignedStaff == email
}

func (i *Issue) HasUpvoted(email string) bool {
	for _, e := range i.Upvoters {
		if e == email {
			return true
		}
	}
	return false
}

// VisibleTo reports whether p may see the issue. Hidden issues are limited to the reporter, the assignee and admins.
func (i *Issue) VisibleTo(p *internal.Principal) bool {
	if !i.IsHidden {
		return true
	}
	if p == nil {
		return false
	}
	return p.Email == i.ReporterEmail || i.IsAssignedTo(p.Email) || p.HasRole(internal.RoleAdmin)
}

func FromDataModel(row *issueDatamodel.Issue) *Issue {
	upvoters := make([]string, 0, len(row.Upvoters))
	for _, u := range row.Upvoters {
		upvoters = append(upvoters, u.UserEmail)
	}
	return &Issue{
		ID:            row.ID,
		ReporterEmail: row.ReporterEmail,
		Title:         row.Title,
		Description:   row.Description,
		Category:      row.Category,
		Location:      row.Location,
		Image:         row.Image,
		Status:        row.Status,
		Priority:      row.Priority,
		AssignedStaff: row.AssignedStaff,
		Upvotes:       row.Upvotes,
		Upvoters:      upvoters,
		IsHidden:      row.IsHidden,
		IsBoosted:     row.IsBoosted,
		ReportedAt:    row.ReportedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func ToDataModel(i *Issue) *issueDatamodel.Issue {
	return &issueDatamodel.Issue{
		ID:            i.ID,
		ReporterEmail: i.ReporterEmail,
		Title:         i.Title,
		Description:   i.Description,
		Category:      i.Category,
		Location:      i.Location,
		Image:         i.Image,
		Status:        i.Status,
		Priority:      i.Priority,
		AssignedStaff: i.AssignedStaff,
		Upvotes:       i.Upvotes,
		IsHidden:      i.IsHidden,
		IsBoosted:     i.IsBoosted,
		ReportedAt:    i.ReportedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
