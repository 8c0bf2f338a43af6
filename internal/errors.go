package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeUnauthenticated   ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden         ErrorType = "FORBIDDEN"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"
	ErrorTypeQuotaExceeded     ErrorType = "QUOTA_EXCEEDED"
	ErrorTypeDuplicateVote     ErrorType = "DUPLICATE_VOTE"
	ErrorTypeAlreadyBoosted    ErrorType = "ALREADY_BOOSTED"
	ErrorTypeUnexpected        ErrorType = "UNEXPECTED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPriority  ErrorCode = "INVALID_PRIORITY"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidPurpose   ErrorCode = "INVALID_PURPOSE"

	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	ErrCodeRoleRequired     ErrorCode = "ROLE_REQUIRED"
	ErrCodeUserBlocked      ErrorCode = "USER_BLOCKED"
	ErrCodeNotOwner         ErrorCode = "NOT_OWNER"
	ErrCodeOwnIssueUpvote   ErrorCode = "OWN_ISSUE_UPVOTE"
	ErrCodeNotAssignedStaff ErrorCode = "NOT_ASSIGNED_STAFF"
	ErrCodeStatusForbidden  ErrorCode = "STATUS_UPDATE_FORBIDDEN"
	ErrCodeDeleteForbidden  ErrorCode = "DELETE_FORBIDDEN"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeIssueNotFound   ErrorCode = "ISSUE_NOT_FOUND"
	ErrCodeStaffNotFound   ErrorCode = "STAFF_NOT_FOUND"
	ErrCodeCommentNotFound ErrorCode = "COMMENT_NOT_FOUND"

	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeQuotaExceeded     ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeDuplicateVote     ErrorCode = "DUPLICATE_VOTE"
	ErrCodeAlreadyBoosted    ErrorCode = "ALREADY_BOOSTED"

	ErrCodeUnexpected      ErrorCode = "UNEXPECTED_ERROR"
	ErrCodePaymentProvider ErrorCode = "PAYMENT_PROVIDER_ERROR"
	ErrCodeAuditWrite      ErrorCode = "AUDIT_WRITE_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// DetailedMessage joins every field message of a validation error.
func (e *AppError) DetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel comparisons survive copies made by WithCause/WithDetails.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause. Sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(t ErrorType, status int, message string, code ErrorCode) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: status}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, code)
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthenticated, http.StatusUnauthorized, message, code)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, code)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, code)
}

// NewInvalidTransitionError names the states the issue may move to from its current status.
func NewInvalidTransitionError(from, to string, allowed []string) *AppError {
	msg := fmt.Sprintf("cannot change status from %s to %s", from, to)
	if len(allowed) > 0 {
		msg = fmt.Sprintf("%s; allowed: %s", msg, strings.Join(allowed, ", "))
	} else {
		msg = fmt.Sprintf("%s; no further transitions allowed", msg)
	}
	e := newAppError(ErrorTypeInvalidTransition, http.StatusBadRequest, msg, ErrCodeInvalidTransition)
	if allowed == nil {
		allowed = []string{}
	}
	e.Details = map[string]interface{}{"from": from, "to": to, "allowed": allowed}
	return e
}

func NewQuotaExceededError(message string) *AppError {
	return newAppError(ErrorTypeQuotaExceeded, http.StatusForbidden, message, ErrCodeQuotaExceeded)
}

func NewDuplicateVoteError(message string) *AppError {
	return newAppError(ErrorTypeDuplicateVote, http.StatusBadRequest, message, ErrCodeDuplicateVote)
}

func NewAlreadyBoostedError(message string) *AppError {
	return newAppError(ErrorTypeAlreadyBoosted, http.StatusBadRequest, message, ErrCodeAlreadyBoosted)
}

func NewUnexpectedError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeUnexpected, http.StatusInternalServerError, message, ErrCodeUnexpected)
	e.Cause = cause
	return e
}

var (
	ErrMissingToken = NewUnauthenticatedError("missing or malformed bearer token", ErrCodeMissingToken)
	ErrInvalidToken = NewUnauthenticatedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired = NewUnauthenticatedError("token has expired", ErrCodeTokenExpired)

	ErrUnauthenticated = NewUnauthenticatedError("authentication required", ErrCodeMissingToken)
	ErrRoleRequired    = NewForbiddenError("insufficient role for this action", ErrCodeRoleRequired)
	ErrUserBlocked     = NewForbiddenError("account is blocked", ErrCodeUserBlocked)
	ErrNotOwner        = NewForbiddenError("not permitted to access this resource", ErrCodeNotOwner)
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is, or wraps, a not-found AppError.
func IsNotFound(err error) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == ErrorTypeNotFound
}

type Response struct {
	Message string      `json:"message"`
	Error   ErrorCode   `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, Response) {
	return e.StatusCode, Response{Message: e.DetailedMessage(), Error: e.Code, Details: e.Details}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
