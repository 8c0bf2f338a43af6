package user

import (
	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/core/common/validation"
)

// RegisterUserDTO is the body of POST /users.
type RegisterUserDTO struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	HasPassword bool   `json:"hasPassword"`
}

func (d RegisterUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(320)
	v.Field("name", d.Name).MaxLength(200)
	v.Field("image", d.Image).MaxLength(2048)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateProfileDTO is a partial update; nil fields are left untouched.
type UpdateProfileDTO struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

func (d UpdateProfileDTO) Validate() error {
	if d.Name == nil && d.Image == nil {
		return internal.NewValidationError("at least one of name or image is required", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(200)
	v.Field("image", d.Image).MaxLength(2048)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SetRoleDTO struct {
	Role string `json:"role"`
}

func (d SetRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required().
		OneOf(internal.ErrCodeInvalidRole, string(internal.RoleCitizen), string(internal.RoleStaff), string(internal.RoleAdmin))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SetBlockedDTO struct {
	IsBlocked *bool `json:"isBlocked"`
}

func (d SetBlockedDTO) Validate() error {
	if d.IsBlocked == nil {
		return internal.NewValidationFieldError("isBlocked", "isBlocked is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
