package timeline_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	timelineDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/timeline"
	"github.com/frahmantamala/civic-issue-tracker/internal/testsupport"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline/postgres"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

type failingRepository struct {
	err error
}

func (f *failingRepository) Insert(ctx context.Context, e *timelineDatamodel.Entry) error {
	return f.err
}

func (f *failingRepository) ListByIssue(ctx context.Context, issueID string) ([]*timelineDatamodel.Entry, error) {
	return nil, f.err
}

var _ = Describe("Timeline Service", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with a working store", func() {
		var service *timeline.Service

		BeforeEach(func() {
			db, err := testsupport.NewSQLite()
			Expect(err).NotTo(HaveOccurred())
			service = timeline.NewService(postgres.NewTimelineRepository(db), logger.Discard())
		})

		It("should append and list entries for one issue", func() {
			e, err := service.Append(ctx, "issue-1", "pending", "Issue reported", "a@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeEmpty())
			Expect(e.Time.IsZero()).To(BeFalse())

			_, err = service.Append(ctx, "issue-2", "pending", "Issue reported", "b@example.com")
			Expect(err).NotTo(HaveOccurred())

			entries, err := service.ListByIssue(ctx, "issue-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].UpdatedBy).To(Equal("a@example.com"))
		})

		It("should return an empty list for unknown issues", func() {
			entries, err := service.ListByIssue(ctx, "nothing")
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).NotTo(BeNil())
			Expect(entries).To(BeEmpty())
		})

		It("should reject incomplete entries", func() {
			_, err := service.Append(ctx, "issue-1", "pending", "", "a@example.com")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Context("when the store fails", func() {
		It("should report the write as an audit failure", func() {
			// Given
			cause := errors.New("disk full")
			service := timeline.NewService(&failingRepository{err: cause}, logger.Discard())

			// When
			_, err := service.Append(ctx, "issue-1", "resolved", "Status changed to resolved", "staff@example.com")

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeUnexpected))
			Expect(appErr.Code).To(Equal(internal.ErrCodeAuditWrite))
			Expect(errors.Is(err, cause)).To(BeTrue())
		})
	})
})
