package ucum

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/govalues/ucum/decimal"
)

var (
	// ErrMalformedNumber is returned when a value is not a decimal literal.
	ErrMalformedNumber = decimal.ErrMalformedNumber
	// ErrDivisionByZero is returned when dividing by an exact zero.
	ErrDivisionByZero = decimal.ErrDivisionByZero

	ErrUnitSyntax              = errors.New("unit syntax error")
	ErrUnknownUnit             = errors.New("unknown unit")
	ErrUnknownPrefix           = errors.New("unknown prefix")
	ErrPrefixNotApplicable     = errors.New("prefix not applicable")
	ErrRegistryIntegrity       = errors.New("registry integrity error")
	ErrUncomputableUnit        = errors.New("uncomputable unit")
	ErrIncompatibleSpecialUnit = errors.New("incompatible special unit")
	ErrNotComparable           = errors.New("units are not comparable")
)

// SyntaxError describes a failure to parse a unit expression.
// Offset is the byte offset of the offending character in Expr.
type SyntaxError struct {
	Expr   string
	Offset int
	Msg    string
	Err    error // ErrUnitSyntax or a more specific cause such as ErrUnknownUnit
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("error processing unit %q: %v at character %v", e.Expr, e.Msg, e.Offset)
}

// Unwrap makes both ErrUnitSyntax and the specific cause visible to errors.Is.
func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrUnitSyntax {
		return []error{ErrUnitSyntax}
	}
	return []error{ErrUnitSyntax, e.Err}
}

func syntaxErrorf(expr string, offset int, cause error, format string, args ...any) *SyntaxError {
	if n := len(expr); offset >= n && n > 0 {
		offset = n - 1
	}
	if offset < 0 {
		offset = 0
	}
	return &SyntaxError{Expr: expr, Offset: offset, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// IntegrityError lists every problem found while constructing a [Registry].
type IntegrityError struct {
	Issues *multierror.Error
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, 0, len(e.Issues.Errors))
	for _, err := range e.Issues.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%v: %v issue(s): %v", ErrRegistryIntegrity, len(msgs), strings.Join(msgs, "; "))
}

func (e *IntegrityError) Unwrap() error {
	return ErrRegistryIntegrity
}

// Problems returns the individual issues as strings.
func (e *IntegrityError) Problems() []string {
	msgs := make([]string, 0, len(e.Issues.Errors))
	for _, err := range e.Issues.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}
