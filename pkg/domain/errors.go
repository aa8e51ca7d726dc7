package domain

import "errors"

// ErrInvalidOperand is returned when a character outside the operand set
// reaches the elementary constructor. Validation should have rejected it.
var ErrInvalidOperand = errors.New("invalid operand")

// ErrEmptyExpression is returned when an expression has nothing left to
// evaluate after whitespace and empty parentheses are removed.
var ErrEmptyExpression = errors.New("empty expression")

// ErrStackUnderflow is returned when an operator finds too few operands.
var ErrStackUnderflow = errors.New("operand stack underflow")

// ErrDanglingOperand is returned when more than one automaton is left once
// every token has been consumed.
var ErrDanglingOperand = errors.New("dangling operand")

// ErrResultNotFound is returned when a result ID cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")
