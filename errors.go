package dbmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/compiler/load"
)

// ErrorKind classifies the errors of a run.
type ErrorKind uint8

// Error kinds, from the least to the most specific phase.
const (
	KindUnknown ErrorKind = iota
	KindParse
	KindConfig
	KindValue
	KindDuplicateName
	KindConstraint
	KindForeignKey
	KindLanguage
	KindRender
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindParse:         "parse",
	KindConfig:        "config",
	KindValue:         "value_validation",
	KindDuplicateName: "duplicate_name",
	KindConstraint:    "constraint_violation",
	KindForeignKey:    "unresolved_foreign_key",
	KindLanguage:      "unsupported_language",
	KindRender:        "render",
}

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// ExitCode returns the process exit code reporting an error of this kind.
func (k ErrorKind) ExitCode() int {
	if k == KindUnknown {
		return 1
	}
	return int(k) + 1
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, load.ErrParse):
		return KindParse
	case errors.Is(err, gen.ErrInvalidConfig):
		return KindConfig
	case errors.Is(err, gen.ErrInvalidValue):
		return KindValue
	case errors.Is(err, gen.ErrDuplicateName):
		return KindDuplicateName
	case errors.Is(err, gen.ErrConstraintViolation):
		return KindConstraint
	case errors.Is(err, gen.ErrUnresolvedForeignKey):
		return KindForeignKey
	case errors.Is(err, gen.ErrUnsupportedLanguage):
		return KindLanguage
	case errors.Is(err, gen.ErrRender):
		return KindRender
	default:
		return KindUnknown
	}
}

// AggregateError represents multiple errors collected during an operation,
// such as the errors reported by a lint run.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "dbmodel: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("dbmodel: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
