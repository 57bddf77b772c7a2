// Package diagnostics defines the translator's typed error values,
// following the same NewError(code, subject, message)-then-append-to-ctx
// convention the teacher's parser package uses
// (internal/parser/processor.go, internal/parser/parser_errors_test.go) —
// except here a diagnostic always stops the pipeline (§7: fail-fast).
package diagnostics

import "fmt"

// ErrorCode classifies a DiagnosticError by the §7 error kind it reports:
// E (ElaborationFailed), U (UnsupportedFeature), I (InvariantViolation),
// C (ConfigError).
type ErrorCode string

const (
	ErrElaborationFailed ErrorCode = "E000"

	ErrUnsupportedDivision    ErrorCode = "U001"
	ErrUnsupportedModulus     ErrorCode = "U002"
	ErrUnsupportedBitwise     ErrorCode = "U003"
	ErrUnsupportedCast        ErrorCode = "U004"
	ErrUnsupportedMathFn      ErrorCode = "U005"
	ErrUnsupportedArray       ErrorCode = "U006"
	ErrUnsupportedExternalVar ErrorCode = "U007"

	ErrMissingHash          ErrorCode = "I001"
	ErrBadAssignmentTarget  ErrorCode = "I002"
	ErrUnknownChannel       ErrorCode = "I003"
	ErrDuplicateSiblingName ErrorCode = "I004"
	ErrExpressionCycle      ErrorCode = "I005"

	ErrUnknownFixedFaultNode ErrorCode = "C001"
)

// DiagnosticError is the translator's single error value type. Subject
// names the offending identifier (a rule id, a variable name, a node
// name) so the message is actionable without a source span — the
// translator has none, it works over an already-elaborated value.
type DiagnosticError struct {
	Code    ErrorCode
	Subject string
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Subject, e.Message)
}

// New constructs a DiagnosticError, formatting Message the way fmt.Sprintf
// would (subject is passed separately so callers don't have to repeat it
// inside the format string).
func New(code ErrorCode, subject string, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedFeature builds the DiagnosticError for a named unsupported
// operator, choosing the dedicated code for the feature name and falling
// back to ErrUnsupportedMathFn for any name without one (math-library
// functions included).
func UnsupportedFeature(feature string, subject string) *DiagnosticError {
	code := ErrUnsupportedMathFn
	switch feature {
	case "division":
		code = ErrUnsupportedDivision
	case "modulus":
		code = ErrUnsupportedModulus
	case "bitwise and", "bitwise or", "bitwise xor", "bitwise shift-left", "bitwise shift-right":
		code = ErrUnsupportedBitwise
	case "cast from integer to real", "cast from real to integer":
		code = ErrUnsupportedCast
	case "array indexing":
		code = ErrUnsupportedArray
	case "external variable":
		code = ErrUnsupportedExternalVar
	}
	return New(code, subject, "unsupported feature: %s", feature)
}
