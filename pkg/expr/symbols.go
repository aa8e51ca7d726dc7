package expr

import (
	"strings"
	"unicode"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Operator symbols. Concat is never required in user input; the parser
// inserts it between adjacent factors.
const (
	Alternation rune = '|'
	Concat      rune = ','
	Kleene      rune = '*'
	Positive    rune = '+'
	OpenParen   rune = '('
	CloseParen  rune = ')'
)

// Arity classifies how an operator binds its operands.
type Arity int

const (
	Grouping Arity = iota
	Unary
	Binary
)

// Operator describes one entry of the operator table.
type Operator struct {
	Name       string
	Symbol     rune
	Precedence int
	Arity      Arity
}

var operators = map[rune]Operator{
	Alternation: {Name: "alternation", Symbol: Alternation, Precedence: 1, Arity: Binary},
	Concat:      {Name: "concatenation", Symbol: Concat, Precedence: 2, Arity: Binary},
	Kleene:      {Name: "kleene closure", Symbol: Kleene, Precedence: 3, Arity: Unary},
	Positive:    {Name: "positive closure", Symbol: Positive, Precedence: 3, Arity: Unary},
	OpenParen:   {Name: "open parenthesis", Symbol: OpenParen, Precedence: 4, Arity: Grouping},
	CloseParen:  {Name: "close parenthesis", Symbol: CloseParen, Precedence: 4, Arity: Grouping},
}

// escapes maps the typed escape sequences to the operand they stand for.
var escapes = strings.NewReplacer(`\e`, string(domain.Epsilon), `\0`, string(domain.EmptySet))

// Lookup returns the operator table entry for r.
func Lookup(r rune) (Operator, bool) {
	op, ok := operators[r]
	return op, ok
}

// IsOperand reports whether r is a letter, a digit, epsilon or the empty set.
func IsOperand(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == domain.Epsilon || r == domain.EmptySet
}

func IsOperator(r rune) bool {
	_, ok := operators[r]
	return ok
}

func IsUnary(r rune) bool {
	op, ok := operators[r]
	return ok && op.Arity == Unary
}

func IsBinary(r rune) bool {
	op, ok := operators[r]
	return ok && op.Arity == Binary
}

// Precedence returns the binding strength of an operator, 0 for non-operators.
func Precedence(r rune) int {
	return operators[r].Precedence
}
