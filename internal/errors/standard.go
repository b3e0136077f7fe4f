// Package errors provides standardized error messaging for escher
package errors

import (
	"fmt"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategorySyntax    ErrorCategory = "SYNTAX"
	CategorySignature ErrorCategory = "SIGNATURE"
	CategoryLimit     ErrorCategory = "LIMIT"
	CategoryConfig    ErrorCategory = "CONFIG"
)

// Error codes. Two errors with the same code match under errors.Is.
const (
	CodeSignaturePlacement  = "SIGNATURE_PLACEMENT"
	CodeExpectedLabel       = "EXPECTED_LABEL"
	CodeUnterminatedString  = "UNTERMINATED_STRING"
	CodeUnterminatedList    = "UNTERMINATED_LIST"
	CodeUnbalancedDelimiter = "UNBALANCED_DELIMITER"
	CodeUnexpectedEnd       = "UNEXPECTED_END"
	CodeExcessiveNesting    = "EXCESSIVE_NESTING"
	CodeVersionMismatch     = "VERSION_MISMATCH"
)

// Sentinels for errors.Is comparisons
var (
	ErrSignaturePlacement  = &StandardError{Category: CategorySignature, Code: CodeSignaturePlacement}
	ErrExpectedLabel       = &StandardError{Category: CategorySignature, Code: CodeExpectedLabel}
	ErrUnterminatedString  = &StandardError{Category: CategorySyntax, Code: CodeUnterminatedString}
	ErrUnterminatedList    = &StandardError{Category: CategorySyntax, Code: CodeUnterminatedList}
	ErrUnbalancedDelimiter = &StandardError{Category: CategorySyntax, Code: CodeUnbalancedDelimiter}
	ErrUnexpectedEnd       = &StandardError{Category: CategorySyntax, Code: CodeUnexpectedEnd}
	ErrExcessiveNesting    = &StandardError{Category: CategoryLimit, Code: CodeExcessiveNesting}
	ErrVersionMismatch     = &StandardError{Category: CategoryConfig, Code: CodeVersionMismatch}
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%s:%s]", e.Category, e.Code)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Is reports whether target carries the same code
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
	}
}

// Common error constructors
func SignaturePlacement(found string) *StandardError {
	return NewStandardError(CategorySignature, CodeSignaturePlacement,
		fmt.Sprintf("a signature must be followed by a fun or action form, found %s", found),
		map[string]interface{}{"found": found})
}

func ExpectedLabel(found string) *StandardError {
	return NewStandardError(CategorySignature, CodeExpectedLabel,
		fmt.Sprintf("expected a label, found %s", found),
		map[string]interface{}{"found": found})
}

func UnterminatedString() *StandardError {
	return NewStandardError(CategorySyntax, CodeUnterminatedString,
		"unterminated string", nil)
}

func UnterminatedList() *StandardError {
	return NewStandardError(CategorySyntax, CodeUnterminatedList,
		"list is not closed before end of input", nil)
}

func UnbalancedDelimiter(delim byte) *StandardError {
	return NewStandardError(CategorySyntax, CodeUnbalancedDelimiter,
		fmt.Sprintf("unexpected %q with nothing open to close", delim),
		map[string]interface{}{"delimiter": string(delim)})
}

func UnexpectedEnd() *StandardError {
	return NewStandardError(CategorySyntax, CodeUnexpectedEnd,
		"unexpected end of input", nil)
}

func ExcessiveNesting(limit int) *StandardError {
	return NewStandardError(CategoryLimit, CodeExcessiveNesting,
		fmt.Sprintf("nesting exceeds the limit of %d", limit),
		map[string]interface{}{"limit": limit})
}

func VersionMismatch(version, constraint string) *StandardError {
	return NewStandardError(CategoryConfig, CodeVersionMismatch,
		fmt.Sprintf("tool version %s does not satisfy %q", version, constraint),
		map[string]interface{}{"version": version, "constraint": constraint})
}
