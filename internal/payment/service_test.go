package payment_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	paymentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/payment"
	paymentgatewaytypes "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
	issuePostgres "github.com/frahmantamala/civic-issue-tracker/internal/issue/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/payment"
	paymentPostgres "github.com/frahmantamala/civic-issue-tracker/internal/payment/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/testsupport"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
	timelinePostgres "github.com/frahmantamala/civic-issue-tracker/internal/timeline/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/user"
	userPostgres "github.com/frahmantamala/civic-issue-tracker/internal/user/postgres"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

type fakeGateway struct {
	requests []*paymentgatewaytypes.IntentRequest
	err      error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req *paymentgatewaytypes.IntentRequest) (*paymentgatewaytypes.IntentResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &paymentgatewaytypes.IntentResponse{ID: "pi_123", ClientSecret: "pi_123_secret", Status: paymentgatewaytypes.IntentStatusRequiresPayment}, nil
}

func (g *fakeGateway) Currency() string {
	return "usd"
}

var _ = Describe("Payment Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		gateway   *fakeGateway
		service   *payment.Service
		issues    *issue.Service
		users     *user.Service
		timelines *timeline.Service

		citizen *internal.Principal
		admin   *internal.Principal
	)

	paymentCount := func() int64 {
		var n int64
		Expect(db.Model(&paymentDatamodel.Payment{}).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = testsupport.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		lg := logger.Discard()
		gateway = &fakeGateway{}
		users = user.NewService(userPostgres.NewUserRepository(db), lg)
		timelines = timeline.NewService(timelinePostgres.NewTimelineRepository(db), lg)
		issues = issue.NewService(issuePostgres.NewIssueRepository(db), timelines, users,
			internal.IssueConfig{OpenQuota: 3, DefaultPageSize: 10, MaxPageSize: 50}, lg)
		service = payment.NewService(paymentPostgres.NewPaymentRepository(db), gateway, timelines, lg)

		_, _, err = users.Register(ctx, user.RegisterUserDTO{Email: "citizen@example.com"})
		Expect(err).NotTo(HaveOccurred())
		citizen = &internal.Principal{Email: "citizen@example.com", Role: internal.RoleCitizen}
		admin = &internal.Principal{Email: "admin@example.com", Role: internal.RoleAdmin}
	})

	Describe("CreateIntent", func() {
		It("should forward the amount and caller metadata to the provider", func() {
			intent, err := service.CreateIntent(ctx, citizen, payment.CreateIntentDTO{Amount: 500, Purpose: payment.PurposePremium})
			Expect(err).NotTo(HaveOccurred())
			Expect(intent.ClientSecret).To(Equal("pi_123_secret"))
			Expect(intent.IntentID).To(Equal("pi_123"))

			Expect(gateway.requests).To(HaveLen(1))
			Expect(gateway.requests[0].Amount).To(Equal(int64(500)))
			Expect(gateway.requests[0].Metadata).To(HaveKeyWithValue("userEmail", "citizen@example.com"))
			Expect(paymentCount()).To(BeZero())
		})

		It("should reject non-positive amounts before calling the provider", func() {
			_, err := service.CreateIntent(ctx, citizen, payment.CreateIntentDTO{Amount: 0})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(gateway.requests).To(BeEmpty())
		})

		It("should require a purpose", func() {
			_, err := service.CreateIntent(ctx, citizen, payment.CreateIntentDTO{Amount: 100})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(gateway.requests).To(BeEmpty())
		})

		It("should require an issue for boost intents", func() {
			_, err := service.CreateIntent(ctx, citizen, payment.CreateIntentDTO{Amount: 100, Purpose: payment.PurposeIssueBoost})
			Expect(err).To(HaveOccurred())
		})

		It("should wrap provider failures as unexpected", func() {
			gateway.err = errors.New("connection refused")
			_, err := service.CreateIntent(ctx, citizen, payment.CreateIntentDTO{Amount: 100, Purpose: payment.PurposePremium})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeUnexpected))
		})

		It("should require authentication", func() {
			_, err := service.CreateIntent(ctx, nil, payment.CreateIntentDTO{Amount: 100, Purpose: payment.PurposePremium})
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})
	})

	Describe("Boost", func() {
		var target *issue.Issue

		BeforeEach(func() {
			var err error
			target, err = issues.Create(ctx, citizen, issue.CreateIssueDTO{Title: "Sinkhole", Category: "roads", Location: "5th Ave"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should escalate the issue and record one payment", func() {
			// When
			p, err := service.Boost(ctx, citizen, target.ID, payment.ConfirmDTO{TransactionID: "txn_1", Amount: 1000})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Purpose).To(Equal(payment.PurposeIssueBoost))
			Expect(*p.IssueID).To(Equal(target.ID))
			Expect(p.Currency).To(Equal("usd"))

			boosted, err := issues.Get(ctx, citizen, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(boosted.Priority).To(Equal(issue.PriorityHigh))
			Expect(boosted.IsBoosted).To(BeTrue())

			entries, err := timelines.ListByIssue(ctx, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(paymentCount()).To(Equal(int64(1)))
		})

		It("should reject a second boost without recording a payment", func() {
			_, err := service.Boost(ctx, citizen, target.ID, payment.ConfirmDTO{TransactionID: "txn_1", Amount: 1000})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Boost(ctx, citizen, target.ID, payment.ConfirmDTO{TransactionID: "txn_2", Amount: 1000})
			Expect(err).To(MatchError(payment.ErrAlreadyBoosted))
			Expect(paymentCount()).To(Equal(int64(1)))
		})

		It("should reject issues that are already high priority", func() {
			_, err := issues.SetPriority(ctx, admin, target.ID, issue.PriorityDTO{Priority: issue.PriorityHigh})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Boost(ctx, citizen, target.ID, payment.ConfirmDTO{TransactionID: "txn_1", Amount: 1000})
			Expect(err).To(MatchError(payment.ErrAlreadyBoosted))
			Expect(paymentCount()).To(BeZero())
		})

		It("should return not found for unknown issues", func() {
			_, err := service.Boost(ctx, citizen, "missing", payment.ConfirmDTO{TransactionID: "txn_1", Amount: 1000})
			Expect(err).To(MatchError(payment.ErrIssueNotFound))
			Expect(paymentCount()).To(BeZero())
		})

		It("should reject blocked accounts", func() {
			blocked := &internal.Principal{Email: citizen.Email, Role: internal.RoleCitizen, IsBlocked: true}
			_, err := service.Boost(ctx, blocked, target.ID, payment.ConfirmDTO{TransactionID: "txn_1", Amount: 1000})
			Expect(err).To(MatchError(internal.ErrUserBlocked))
		})

		It("should require a transaction id", func() {
			_, err := service.Boost(ctx, citizen, target.ID, payment.ConfirmDTO{Amount: 1000})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("VerifyPremium", func() {
		It("should record the payment and flag the account", func() {
			p, err := service.VerifyPremium(ctx, citizen, payment.ConfirmDTO{TransactionID: "txn_premium", Amount: 2500})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Purpose).To(Equal(payment.PurposePremium))
			Expect(p.IssueID).To(BeNil())

			u, err := users.GetByEmail(ctx, citizen.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsPremium).To(BeTrue())

			mine, err := service.ListByUser(ctx, citizen.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].Metadata).To(HaveKeyWithValue("source", "client_confirmation"))
		})
	})

	Describe("List", func() {
		It("should return the whole ledger", func() {
			_, err := service.VerifyPremium(ctx, citizen, payment.ConfirmDTO{TransactionID: "a", Amount: 1})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.VerifyPremium(ctx, &internal.Principal{Email: "other@example.com"}, payment.ConfirmDTO{TransactionID: "b", Amount: 2})
			Expect(err).NotTo(HaveOccurred())

			all, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			mine, err := service.ListByUser(ctx, citizen.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
		})
	})
})
