package comment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/comment"
	commentPostgres "github.com/frahmantamala/civic-issue-tracker/internal/comment/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
	"github.com/frahmantamala/civic-issue-tracker/internal/testsupport"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

type stubIssues struct {
	issues map[string]*issue.Issue
}

func (s *stubIssues) Get(ctx context.Context, actor *internal.Principal, id string) (*issue.Issue, error) {
	i, ok := s.issues[id]
	if !ok || !i.VisibleTo(actor) {
		return nil, issue.ErrNotFound
	}
	return i, nil
}

var _ = Describe("Comment Service", func() {
	var (
		ctx     context.Context
		service *comment.Service

		author *internal.Principal
		other  *internal.Principal
		admin  *internal.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := testsupport.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		issues := &stubIssues{issues: map[string]*issue.Issue{
			"open":   {ID: "open", ReporterEmail: "reporter@example.com"},
			"hidden": {ID: "hidden", ReporterEmail: "reporter@example.com", IsHidden: true},
		}}
		service = comment.NewService(commentPostgres.NewCommentRepository(db), issues, logger.Discard())

		author = &internal.Principal{Email: "author@example.com", Role: internal.RoleCitizen}
		other = &internal.Principal{Email: "other@example.com", Role: internal.RoleCitizen}
		admin = &internal.Principal{Email: "admin@example.com", Role: internal.RoleAdmin}
	})

	Describe("Create", func() {
		It("should store a trimmed comment for an existing issue", func() {
			c, err := service.Create(ctx, author, comment.CreateCommentDTO{IssueID: "open", Text: "  Same here  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Text).To(Equal("Same here"))
			Expect(c.UserEmail).To(Equal(author.Email))

			list, err := service.ListByIssue(ctx, "open")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("should reject comments on unknown or hidden issues", func() {
			_, err := service.Create(ctx, author, comment.CreateCommentDTO{IssueID: "missing", Text: "hello"})
			Expect(err).To(MatchError(comment.ErrIssueNotFound))

			_, err = service.Create(ctx, author, comment.CreateCommentDTO{IssueID: "hidden", Text: "hello"})
			Expect(err).To(MatchError(comment.ErrIssueNotFound))
		})

		It("should reject blank text", func() {
			_, err := service.Create(ctx, author, comment.CreateCommentDTO{IssueID: "open", Text: "   "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject blocked accounts", func() {
			blocked := &internal.Principal{Email: "author@example.com", IsBlocked: true}
			_, err := service.Create(ctx, blocked, comment.CreateCommentDTO{IssueID: "open", Text: "hello"})
			Expect(err).To(MatchError(internal.ErrUserBlocked))
		})
	})

	Describe("Delete", func() {
		var created *comment.Comment

		BeforeEach(func() {
			var err error
			created, err = service.Create(ctx, author, comment.CreateCommentDTO{IssueID: "open", Text: "first"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should let the author delete", func() {
			Expect(service.Delete(ctx, author, created.ID)).To(Succeed())
			list, err := service.ListByIssue(ctx, "open")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("should let an admin delete", func() {
			Expect(service.Delete(ctx, admin, created.ID)).To(Succeed())
		})

		It("should refuse other users", func() {
			Expect(service.Delete(ctx, other, created.ID)).To(MatchError(internal.ErrNotOwner))
		})

		It("should return not found for unknown comments", func() {
			Expect(service.Delete(ctx, author, "missing")).To(MatchError(comment.ErrNotFound))
		})
	})
})
