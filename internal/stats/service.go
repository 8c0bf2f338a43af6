package stats

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/civic-issue-tracker/internal"
)

type Repository interface {
	Admin(ctx context.Context) (*AdminStats, error)
	Citizen(ctx context.Context, email string) (*CitizenStats, error)
	Staff(ctx context.Context, email string) (*StaffStats, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Admin(ctx context.Context) (*AdminStats, error) {
	out, err := s.repo.Admin(ctx)
	if err != nil {
		s.logger.Error("failed to compute admin stats", "error", err)
		return nil, internal.NewUnexpectedError("failed to compute statistics", err)
	}
	return out, nil
}

func (s *Service) Citizen(ctx context.Context, email string) (*CitizenStats, error) {
	out, err := s.repo.Citizen(ctx, email)
	if err != nil {
		s.logger.Error("failed to compute citizen stats", "error", err, "user_email", email)
		return nil, internal.NewUnexpectedError("failed to compute statistics", err)
	}
	return out, nil
}

func (s *Service) Staff(ctx context.Context, email string) (*StaffStats, error) {
	out, err := s.repo.Staff(ctx, email)
	if err != nil {
		s.logger.Error("failed to compute staff stats", "error", err, "user_email", email)
		return nil, internal.NewUnexpectedError("failed to compute statistics", err)
	}
	return out, nil
}
