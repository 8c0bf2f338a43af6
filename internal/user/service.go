package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
)

type Repository interface {
	// CreateIfAbsent inserts u unless the email exists. Existing rows are never overwritten.
	CreateIfAbsent(ctx context.Context, u *userDatamodel.User) (created bool, err error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context, role string) ([]*userDatamodel.User, error)
	Update(ctx context.Context, email string, fields map[string]interface{}) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EnsureUser provisions a citizen account the first time a verified email is seen.
func (s *Service) EnsureUser(ctx context.Context, id auth.Identity) (*internal.Principal, error) {
	u, _, err := s.CreateIfAbsent(ctx, RegisterUserDTO{Email: id.Email, Name: id.Name, Image: id.Image}, id.Subject)
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

// Register handles explicit registration. The returned flag reports whether a new account was created.
func (s *Service) Register(ctx context.Context, dto RegisterUserDTO) (*User, bool, error) {
	dto.Email = strings.TrimSpace(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, false, err
	}
	return s.CreateIfAbsent(ctx, dto, "")
}

func (s *Service) CreateIfAbsent(ctx context.Context, dto RegisterUserDTO, subject string) (*User, bool, error) {
	created, err := s.repo.CreateIfAbsent(ctx, &userDatamodel.User{
		Email:       dto.Email,
		Subject:     subject,
		Name:        dto.Name,
		Image:       dto.Image,
		Role:        string(internal.RoleCitizen),
		HasPassword: dto.HasPassword,
	})
	if err != nil {
		s.logger.Error("failed to provision user", "error", err, "email", dto.Email)
		return nil, false, internal.NewUnexpectedError("failed to provision user", err)
	}
	if created {
		s.logger.Info("user provisioned", "email", dto.Email, "role", internal.RoleCitizen)
	}

	u, err := s.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, false, err
	}
	return u, created, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	row, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if internal.IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to get user", "error", err, "email", email)
		return nil, internal.NewUnexpectedError("failed to get user", err)
	}
	return FromDataModel(row), nil
}

// FindStaff returns the account only if it currently holds the staff role.
func (s *Service) FindStaff(ctx context.Context, email string) (*User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Role != internal.RoleStaff {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, role string) ([]*User, error) {
	if role != "" && !internal.Role(role).Valid() {
		return nil, internal.NewValidationFieldError("role", "role must be one of: citizen, staff, admin", internal.ErrCodeInvalidRole)
	}
	rows, err := s.repo.List(ctx, role)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewUnexpectedError("failed to list users", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

// SetRole replaces the account's role. Admins may change any account, including their own.
func (s *Service) SetRole(ctx context.Context, actor *internal.Principal, email string, dto SetRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.update(ctx, email, map[string]interface{}{"role": dto.Role}); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "email", email, "role", dto.Role, "by", actor.Email)
	return s.GetByEmail(ctx, email)
}

func (s *Service) SetBlocked(ctx context.Context, actor *internal.Principal, email string, dto SetBlockedDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.update(ctx, email, map[string]interface{}{"is_blocked": *dto.IsBlocked}); err != nil {
		return nil, err
	}
	s.logger.Info("user block flag changed", "email", email, "is_blocked", *dto.IsBlocked, "by", actor.Email)
	return s.GetByEmail(ctx, email)
}

// SetPremium only ever sets the flag; there is no path that clears it.
func (s *Service) SetPremium(ctx context.Context, email string) (*User, error) {
	if err := s.update(ctx, email, map[string]interface{}{"is_premium": true}); err != nil {
		return nil, err
	}
	s.logger.Info("user upgraded to premium", "email", email)
	return s.GetByEmail(ctx, email)
}

func (s *Service) UpdateProfile(ctx context.Context, email string, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Image != nil {
		fields["image"] = *dto.Image
	}
	if err := s.update(ctx, email, fields); err != nil {
		return nil, err
	}
	return s.GetByEmail(ctx, email)
}

func (s *Service) update(ctx context.Context, email string, fields map[string]interface{}) error {
	if err := s.repo.Update(ctx, email, fields); err != nil {
		if internal.IsNotFound(err) {
			return ErrNotFound
		}
		s.logger.Error("failed to update user", "error", err, "email", email)
		return internal.NewUnexpectedError("failed to update user", err)
	}
	return nil
}
