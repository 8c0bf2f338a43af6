package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
)

var _ = Describe("AppError", func() {
	It("should match sentinels through copies and wrapping", func() {
		withCause := internal.ErrTokenExpired.WithCause(errors.New("exp claim"))
		wrapped := fmt.Errorf("resolve: %w", withCause)

		Expect(errors.Is(wrapped, internal.ErrTokenExpired)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrInvalidToken)).To(BeFalse())
	})

	It("should not mutate the sentinel when adding a cause", func() {
		_ = internal.ErrInvalidToken.WithCause(errors.New("bad signature"))
		Expect(internal.ErrInvalidToken.Cause).To(BeNil())
	})

	It("should unwrap to its cause", func() {
		cause := errors.New("connection reset")
		err := internal.NewUnexpectedError("failed to load issue", cause)
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("connection reset"))
	})

	It("should find an AppError in a wrapped chain", func() {
		err := fmt.Errorf("outer: %w", internal.ErrUserBlocked)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeUserBlocked))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("should classify not-found errors", func() {
		Expect(internal.IsNotFound(internal.NewNotFoundError("gone", internal.ErrCodeIssueNotFound))).To(BeTrue())
		Expect(internal.IsNotFound(internal.ErrNotOwner)).To(BeFalse())
	})

	DescribeTable("status codes",
		func(err *internal.AppError, status int) {
			code, _ := err.ToHTTPResponse()
			Expect(code).To(Equal(status))
		},
		Entry("unauthenticated", internal.ErrMissingToken, http.StatusUnauthorized),
		Entry("forbidden", internal.ErrRoleRequired, http.StatusForbidden),
		Entry("not found", internal.NewNotFoundError("x", internal.ErrCodeUserNotFound), http.StatusNotFound),
		Entry("validation", internal.NewValidationError("x", internal.ErrCodeInvalidBody), http.StatusBadRequest),
		Entry("invalid transition", internal.NewInvalidTransitionError("resolved", "pending", []string{"closed"}), http.StatusBadRequest),
		Entry("quota", internal.NewQuotaExceededError("x"), http.StatusForbidden),
		Entry("duplicate vote", internal.NewDuplicateVoteError("x"), http.StatusBadRequest),
		Entry("already boosted", internal.NewAlreadyBoostedError("x"), http.StatusBadRequest),
		Entry("unexpected", internal.NewUnexpectedError("x", nil), http.StatusInternalServerError),
	)

	It("should name the allowed transitions", func() {
		err := internal.NewInvalidTransitionError("resolved", "pending", []string{"closed"})
		Expect(err.Message).To(ContainSubstring("allowed: closed"))

		terminal := internal.NewInvalidTransitionError("closed", "pending", nil)
		Expect(terminal.Message).To(ContainSubstring("no further transitions allowed"))
	})

	It("should join field messages in the response", func() {
		err := internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
		_, body := err.ToHTTPResponse()
		Expect(body.Message).To(Equal("title is required"))
		Expect(body.Error).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("should marshal without the cause", func() {
		err := internal.NewUnexpectedError("failed", errors.New("secret dsn"))
		raw, marshalErr := json.Marshal(err)
		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret dsn"))
		Expect(string(raw)).To(ContainSubstring(`"code":"UNEXPECTED_ERROR"`))
	})
})
