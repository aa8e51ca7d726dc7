package expr

import (
	"errors"
	"fmt"
)

// Kind identifies which syntax rule an expression broke.
type Kind string

const (
	KindTooLong          Kind = "too_long"
	KindInvalidCharacter Kind = "invalid_character"
	KindUnopenedParen    Kind = "unopened_parenthesis"
	KindUnclosedParen    Kind = "unclosed_parenthesis"
	KindUnaryPlacement   Kind = "unary_placement"
	KindBinaryPlacement  Kind = "binary_placement"
)

// Sentinels for errors.Is, one per Kind.
var (
	ErrTooLong          = errors.New("expression is too long")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrUnopenedParen    = errors.New("more closing than opening parentheses")
	ErrUnclosedParen    = errors.New("unbalanced parentheses")
	ErrUnaryPlacement   = errors.New("misplaced unary operator")
	ErrBinaryPlacement  = errors.New("misplaced binary operator")
)

var sentinels = map[Kind]error{
	KindTooLong:          ErrTooLong,
	KindInvalidCharacter: ErrInvalidCharacter,
	KindUnopenedParen:    ErrUnopenedParen,
	KindUnclosedParen:    ErrUnclosedParen,
	KindUnaryPlacement:   ErrUnaryPlacement,
	KindBinaryPlacement:  ErrBinaryPlacement,
}

// SyntaxError describes one violated rule.
type SyntaxError struct {
	Kind     Kind
	Position int  // rune offset in the normalized expression, -1 if not applicable
	Char     rune // offending character, 0 if not applicable
	Message  string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// Is matches the sentinel of the error's Kind.
func (e *SyntaxError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newSyntaxError(kind Kind, pos int, c rune, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: kind, Position: pos, Char: c, Message: fmt.Sprintf(format, args...)}
}

// AggregateError represents multiple syntax errors.
type AggregateError struct {
	Errors []*SyntaxError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d syntax errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// SyntaxErrors returns all syntax errors carried by err.
func SyntaxErrors(err error) []*SyntaxError {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *SyntaxError
	if errors.As(err, &single) {
		return []*SyntaxError{single}
	}
	return nil
}
