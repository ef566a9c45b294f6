package domain

import "errors"

// ErrorCode classifies protocol-layer operation failures. The manager maps
// each code to exactly one user-facing message.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodeAuthenticationFailed
	CodeRegistrationRequired
	CodeProviderNotRegistered
	CodeSubscriptionAlreadyExists

	// Delivery failure codes.
	CodeOfflineMessagesNotSupported
	CodeNetworkFailure
	CodeInternalError
	CodeForbidden
	CodeUnsupportedOperation
)

var (
	ErrNotSupported = errors.New("operation not supported")
	ErrNoLiveRoom   = errors.New("no live room attached")
)

// OpError is a failed protocol operation with its failure code.
type OpError struct {
	Code   ErrorCode
	Reason string
}

func (e *OpError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "operation failed"
}

// NewOpError avoids raw literals at protocol call sites.
func NewOpError(code ErrorCode, reason string) *OpError {
	return &OpError{Code: code, Reason: reason}
}

// CodeOf extracts the failure code from err, CodeUnknown when err carries
// none.
func CodeOf(err error) ErrorCode {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return CodeUnknown
}
