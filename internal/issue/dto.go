package issue

import (
	"strings"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/core/common/validation"
)

// CreateIssueDTO carries only client-writable fields; status, counters and timestamps are set server-side.
type CreateIssueDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Image       string `json:"image"`
}

func (d *CreateIssueDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
}

func (d CreateIssueDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(5000)
	v.Field("category", d.Category).Required().MaxLength(100)
	v.Field("location", d.Location).Required().MaxLength(500)
	v.Field("image", d.Image).MaxLength(2048)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// EditIssueDTO is a partial update of the descriptive fields. Ownership, status and flags are not editable.
type EditIssueDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
}

func (d EditIssueDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.Title != nil {
		fields["title"] = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		fields["description"] = *d.Description
	}
	if d.Category != nil {
		fields["category"] = strings.TrimSpace(*d.Category)
	}
	if d.Location != nil {
		fields["location"] = strings.TrimSpace(*d.Location)
	}
	if d.Image != nil {
		fields["image"] = *d.Image
	}
	return fields
}

func (d EditIssueDTO) Validate() error {
	if len(d.Fields()) == 0 {
		return internal.NewValidationError("no editable fields supplied", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(200)
	}
	if d.Category != nil {
		v.Field("category", *d.Category).Required().MaxLength(100)
	}
	if d.Location != nil {
		v.Field("location", *d.Location).Required().MaxLength(500)
	}
	v.Field("description", d.Description).MaxLength(5000)
	v.Field("image", d.Image).MaxLength(2048)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (d UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(internal.ErrCodeInvalidStatus, settableStatuses...)
	v.Field("note", d.Note).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AssignDTO struct {
	StaffEmail string `json:"staffEmail"`
}

func (d AssignDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("staffEmail", d.StaffEmail).Required().Email()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type VisibilityDTO struct {
	IsHidden *bool `json:"isHidden"`
}

func (d VisibilityDTO) Validate() error {
	if d.IsHidden == nil {
		return internal.NewValidationFieldError("isHidden", "isHidden is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type PriorityDTO struct {
	Priority string `json:"priority"`
}

func (d PriorityDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("priority", d.Priority).Required().OneOf(internal.ErrCodeInvalidPriority, PriorityNormal, PriorityHigh)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Filter narrows a public listing. Limit 0 returns the full matching set.
type Filter struct {
	Status   string
	Priority string
	Category string
	Search   string
	Limit    int
	Offset   int
}

type Page struct {
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Items []*Issue `json:"items"`
}
