package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrDocumentNotFound        = errors.New("end-of-work document not found")
	ErrContractNotFound        = errors.New("work contract not found")
	ErrAgentNotFound           = errors.New("agent not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrRecruitmentNotFound     = errors.New("recruitment not found")
	ErrRecruitmentConverted    = errors.New("recruitment is already converted")
	ErrRecruitmentNotAccepted  = errors.New("recruitment is not accepted")
	ErrAlreadyConverted        = errors.New("recruitment already converted to an agent")
	ErrDuplicateDocumentNumber = errors.New("document number already exists")
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrVersionConflict         = errors.New("document was modified concurrently")
	ErrInvalidPaymentAmount    = errors.New("invalid payment amount")
	ErrOverpayment             = errors.New("payment exceeds remaining amount")
	ErrStatusRegression        = errors.New("payment status cannot move backwards")
	ErrValidation              = errors.New("validation failed")
)

// Kind classifies a BusinessError for transport mapping.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindInvalidState
	KindAlreadyConverted
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindAlreadyConverted:
		return "already_converted"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDocumentNotFound        = "DOCUMENT_NOT_FOUND"
	ErrCodeContractNotFound        = "CONTRACT_NOT_FOUND"
	ErrCodeAgentNotFound           = "AGENT_NOT_FOUND"
	ErrCodeRecruitmentNotFound     = "RECRUITMENT_NOT_FOUND"
	ErrCodeRecruitmentConverted    = "RECRUITMENT_CONVERTED"
	ErrCodeRecruitmentNotAccepted  = "RECRUITMENT_NOT_ACCEPTED"
	ErrCodeAlreadyConverted        = "ALREADY_CONVERTED"
	ErrCodeDuplicateDocumentNumber = "DUPLICATE_DOCUMENT_NUMBER"
	ErrCodeDuplicateKey            = "DUPLICATE_KEY"
	ErrCodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	ErrCodeInvalidPaymentAmount    = "INVALID_PAYMENT_AMOUNT"
	ErrCodeOverpayment             = "OVERPAYMENT"
	ErrCodeStatusRegression        = "STATUS_REGRESSION"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapDocumentNotFound(id string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeDocumentNotFound,
		fmt.Sprintf("End-of-work document %s not found", id),
		ErrDocumentNotFound,
	)
}

func WrapContractNotFound(id string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeContractNotFound,
		fmt.Sprintf("Work contract %s not found", id),
		ErrContractNotFound,
	)
}

func WrapAgentNotFound(id string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeAgentNotFound,
		fmt.Sprintf("Agent %s not found", id),
		ErrAgentNotFound,
	)
}

func WrapRecruitmentNotFound(id string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeRecruitmentNotFound,
		fmt.Sprintf("Recruitment %s not found", id),
		ErrRecruitmentNotFound,
	)
}

func WrapRecruitmentConverted(id string) *BusinessError {
	return NewBusinessError(
		KindInvalidState,
		ErrCodeRecruitmentConverted,
		fmt.Sprintf("Recruitment %s has been converted and can no longer be modified", id),
		ErrRecruitmentConverted,
	)
}

func WrapRecruitmentNotAccepted(id, status string) *BusinessError {
	return NewBusinessError(
		KindInvalidState,
		ErrCodeRecruitmentNotAccepted,
		fmt.Sprintf("Recruitment %s must be accepted before conversion (current status: %s)", id, status),
		ErrRecruitmentNotAccepted,
	)
}

func WrapAlreadyConverted(id, agentID string) *BusinessError {
	return NewBusinessError(
		KindAlreadyConverted,
		ErrCodeAlreadyConverted,
		fmt.Sprintf("Recruitment %s is already converted to agent %s", id, agentID),
		ErrAlreadyConverted,
	)
}

func WrapDuplicateDocumentNumber(number string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicateDocumentNumber,
		fmt.Sprintf("Document number %s already exists", number),
		ErrDuplicateDocumentNumber,
	)
}

func WrapDuplicateKey(what string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicateKey,
		fmt.Sprintf("A %s with the same key already exists", what),
		ErrDuplicateKey,
	)
}

func WrapConcurrentModification(id string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeConcurrentModification,
		fmt.Sprintf("Document %s was modified concurrently, please retry", id),
		ErrVersionConflict,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapOverpayment(amount, remaining string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeOverpayment,
		fmt.Sprintf("Payment amount %s exceeds remaining amount %s", amount, remaining),
		ErrOverpayment,
	)
}

func WrapStatusRegression(id, from, to string) *BusinessError {
	return NewBusinessError(
		KindInvalidState,
		ErrCodeStatusRegression,
		fmt.Sprintf("Document %s payment status cannot move from %s to %s", id, from, to),
		ErrStatusRegression,
	)
}

func WrapValidation(message string, err error) *BusinessError {
	if err == nil {
		err = ErrValidation
	}
	return NewBusinessError(
		KindValidation,
		ErrCodeValidation,
		message,
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindUnexpected,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		KindUnexpected,
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// KindOf returns the kind of the first BusinessError in err's chain.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnexpected
}

// HTTPStatus maps an error to the status code returned to API callers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindAlreadyConverted, KindConflict, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human readable message of a BusinessError, or the raw
// error text for anything else.
func Message(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
