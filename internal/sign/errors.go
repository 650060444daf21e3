package sign

import "fmt"

// errors.go defines the structured error type shared by the signing domain.
// The code drives the HTTP mapping, the reason drives the localized display
// string shown to the caller (c.f. the qrsign package).

// Error represents a structured error from the sign domain.
type Error struct {
	// code classifies the failure for transport mapping
	code ErrorCode

	// reason is the enumerated caller-visible rejection reason
	reason Reason

	// message is a human-readable (operator-facing) error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Reason() Reason  { return e.reason }
func (e *Error) Unwrap() error   { return e.wrapped }

// ErrorCode classifies signing-flow failures.
type ErrorCode string

const (
	// ErrCodeValidation is used for malformed, oversized or missing input.
	// Always recoverable by the caller; surfaced verbatim.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeNotFound is used when the transaction id is unknown.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeNotEligible is used when the transaction exists but its state
	// does not allow the requested operation (already decided or expired).
	ErrCodeNotEligible ErrorCode = "not_eligible"

	// ErrCodeAuthentication is used when the token or EDS proof of
	// possession fails.
	ErrCodeAuthentication ErrorCode = "authentication"

	// ErrCodeVerification is used when one or more documents failed
	// signature verification. Oracle unavailability collapses into this
	// code for the caller; the distinction is kept in logs.
	ErrCodeVerification ErrorCode = "verification"

	// ErrCodeInternal is used for unexpected failures (store errors etc.).
	ErrCodeInternal ErrorCode = "internal"
)

// Reason enumerates the caller-visible rejection reasons. The qrsign
// package owns the per-locale display strings; this package only names the
// cases.
type Reason string

const (
	ReasonEmptyRequest      Reason = "empty_request"
	ReasonMissingBundle     Reason = "missing_bundle"
	ReasonInvalidVersion    Reason = "invalid_version"
	ReasonEmptyDocumentList Reason = "empty_document_list"
	ReasonMissingSignMethod Reason = "missing_sign_method"
	ReasonInvalidSignMethod Reason = "invalid_sign_method"
	ReasonMissingXML        Reason = "missing_document_xml"
	ReasonMissingFile       Reason = "missing_file"
	ReasonMissingFileMime   Reason = "missing_file_mime"
	ReasonMissingFileData   Reason = "missing_file_data"
	ReasonFieldTooLarge     Reason = "field_too_large"
	ReasonInvalidBin        Reason = "invalid_bin"
	ReasonInvalidExpiry     Reason = "invalid_expiry_date"

	ReasonTransactionNotFound Reason = "transaction_not_found"
	ReasonNotEligible         Reason = "transaction_not_eligible"
	ReasonUnsupportedAuth     Reason = "unsupported_auth_type"
	ReasonMissingAuthProof    Reason = "missing_auth_proof"
	ReasonAuthRejected        Reason = "auth_rejected"
	ReasonSignatureInvalid    Reason = "signature_invalid"
	ReasonInternal            Reason = "internal_error"
)

// NewValidationError creates a validation error for invalid input.
// Use this for structural bundle failures, size-ceiling violations and
// malformed BINs.
func NewValidationError(reason Reason, msg string) error {
	return &Error{code: ErrCodeValidation, reason: reason, message: msg}
}

// NewNotFoundError creates an error for an unknown transaction id.
func NewNotFoundError(msg string) error {
	return &Error{code: ErrCodeNotFound, reason: ReasonTransactionNotFound, message: msg}
}

// NewNotEligibleError creates an error for a transaction whose state does
// not allow the requested operation. The message stays vague on purpose:
// the caller must not learn whether the transaction is decided, expired or
// unknown to them.
func NewNotEligibleError(msg string) error {
	return &Error{code: ErrCodeNotEligible, reason: ReasonNotEligible, message: msg}
}

// NewAuthenticationError creates an error for a failed proof of possession.
func NewAuthenticationError(reason Reason, msg string) error {
	return &Error{code: ErrCodeAuthentication, reason: reason, message: msg}
}

// WrapAuthenticationError wraps an existing error as an authentication
// failure, preserving the cause for the server-side log.
func WrapAuthenticationError(err error, reason Reason, msg string) error {
	return &Error{code: ErrCodeAuthentication, reason: reason, message: msg, wrapped: err}
}

// NewVerificationError creates an error for a failed signature verification.
func NewVerificationError(msg string) error {
	return &Error{code: ErrCodeVerification, reason: ReasonSignatureInvalid, message: msg}
}

// WrapVerificationError wraps an existing error as a verification failure.
// Use this when the oracle was unreachable or returned unusable data: the
// caller sees a verification failure, the log keeps the upstream cause.
func WrapVerificationError(err error, msg string) error {
	return &Error{code: ErrCodeVerification, reason: ReasonSignatureInvalid, message: msg, wrapped: err}
}

// NewInternalError creates an error for unexpected failures.
func NewInternalError(msg string) error {
	return &Error{code: ErrCodeInternal, reason: ReasonInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal failure.
func WrapInternalError(err error, msg string) error {
	return &Error{code: ErrCodeInternal, reason: ReasonInternal, message: msg, wrapped: err}
}
