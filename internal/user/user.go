package user

import (
	"time"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
)

type User struct {
	ID          int64         `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Image       string        `json:"image"`
	Role        internal.Role `json:"role"`
	IsPremium   bool          `json:"isPremium"`
	IsBlocked   bool          `json:"isBlocked"`
	HasPassword bool          `json:"hasPassword"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	subject string
}

var (
	ErrNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
)

func (u *User) Principal() *internal.Principal {
	return &internal.Principal{
		ID:        u.ID,
		Email:     u.Email,
		Subject:   u.subject,
		Role:      u.Role,
		IsPremium: u.IsPremium,
		IsBlocked: u.IsBlocked,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:          u.ID,
		Email:       u.Email,
		Subject:     u.subject,
		Name:        u.Name,
		Image:       u.Image,
		Role:        string(u.Role),
		IsPremium:   u.IsPremium,
		IsBlocked:   u.IsBlocked,
		HasPassword: u.HasPassword,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Image:       u.Image,
		Role:        internal.Role(u.Role),
		IsPremium:   u.IsPremium,
		IsBlocked:   u.IsBlocked,
		HasPassword: u.HasPassword,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		subject:     u.Subject,
	}
}
