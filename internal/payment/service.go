package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	paymentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/payment"
	paymentgatewaytypes "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
)

type Repository interface {
	// BoostIssue escalates the issue and records p in one transaction. It returns ErrAlreadyBoosted
	// without writing anything when the issue is boosted or high priority already.
	BoostIssue(ctx context.Context, p *paymentDatamodel.Payment) error
	// RecordPremium records p and flags its user premium in one transaction.
	RecordPremium(ctx context.Context, p *paymentDatamodel.Payment) error
	List(ctx context.Context) ([]*paymentDatamodel.Payment, error)
	ListByUser(ctx context.Context, email string) ([]*paymentDatamodel.Payment, error)
}

type Gateway interface {
	CreateIntent(ctx context.Context, req *paymentgatewaytypes.IntentRequest) (*paymentgatewaytypes.IntentResponse, error)
	Currency() string
}

type TimelineRecorder interface {
	Append(ctx context.Context, issueID, status, message, actorEmail string) (*timeline.Entry, error)
}

type Service struct {
	repo     Repository
	gateway  Gateway
	timeline TimelineRecorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, gateway Gateway, tl TimelineRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		timeline: tl,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateIntent starts a payment with the provider. Nothing is recorded locally until the client
// comes back with a transaction id.
func (s *Service) CreateIntent(ctx context.Context, actor *internal.Principal, dto CreateIntentDTO) (*Intent, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	metadata := map[string]string{"userEmail": actor.Email}
	if dto.Purpose != "" {
		metadata["purpose"] = dto.Purpose
	}
	if dto.IssueID != "" {
		metadata["issueId"] = dto.IssueID
	}

	resp, err := s.gateway.CreateIntent(ctx, &paymentgatewaytypes.IntentRequest{
		Amount:   dto.Amount,
		Currency: s.gateway.Currency(),
		Metadata: metadata,
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewUnexpectedError("failed to create payment intent", err)
	}

	s.logger.Info("payment intent created", "intent_id", resp.ID, "user_email", actor.Email, "purpose", dto.Purpose)
	return &Intent{ClientSecret: resp.ClientSecret, IntentID: resp.ID}, nil
}

// Boost records a boost payment and escalates the issue to high priority. A second boost of the
// same issue is rejected and leaves the ledger untouched.
func (s *Service) Boost(ctx context.Context, actor *internal.Principal, issueID string, dto ConfirmDTO) (*Payment, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth(), auth.RequireNotBlocked()); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := s.newPayment(actor.Email, dto, PurposeIssueBoost)
	row.IssueID = &issueID

	if err := s.repo.BoostIssue(ctx, row); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			s.logger.Warn("boost rejected", "error", err, "issue_id", issueID, "user_email", actor.Email)
			return nil, err
		}
		s.logger.Error("failed to boost issue", "error", err, "issue_id", issueID)
		return nil, internal.NewUnexpectedError("failed to boost issue", err)
	}

	s.logger.Info("issue boosted", "issue_id", issueID, "payment_id", row.ID, "user_email", actor.Email)

	if _, err := s.timeline.Append(ctx, issueID, "boosted", "Issue priority boosted to high", actor.Email); err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// VerifyPremium accepts the caller's transaction id at face value, records it and activates premium.
// Transaction ids are not checked for reuse.
func (s *Service) VerifyPremium(ctx context.Context, actor *internal.Principal, dto ConfirmDTO) (*Payment, error) {
	if err := auth.Evaluate(actor, auth.RequireAuth()); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := s.newPayment(actor.Email, dto, PurposePremium)
	if err := s.repo.RecordPremium(ctx, row); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to record premium payment", "error", err, "user_email", actor.Email)
		return nil, internal.NewUnexpectedError("failed to activate premium", err)
	}

	s.logger.Info("premium activated", "payment_id", row.ID, "user_email", actor.Email)
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context) ([]*Payment, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list payments", "error", err)
		return nil, internal.NewUnexpectedError("failed to list payments", err)
	}
	return fromRows(rows), nil
}

func (s *Service) ListByUser(ctx context.Context, email string) ([]*Payment, error) {
	rows, err := s.repo.ListByUser(ctx, email)
	if err != nil {
		s.logger.Error("failed to list payments", "error", err, "user_email", email)
		return nil, internal.NewUnexpectedError("failed to list payments", err)
	}
	return fromRows(rows), nil
}

func (s *Service) newPayment(email string, dto ConfirmDTO, purpose string) *paymentDatamodel.Payment {
	return &paymentDatamodel.Payment{
		ID:            uuid.NewString(),
		UserEmail:     email,
		TransactionID: dto.TransactionID,
		Amount:        dto.Amount,
		Currency:      s.gateway.Currency(),
		Purpose:       purpose,
		Metadata:      map[string]interface{}{"source": "client_confirmation"},
		Date:          s.now().UTC(),
	}
}
