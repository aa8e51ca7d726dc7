package expr

import (
	"strings"
	"unicode"
)

// Postfix is an expression in reverse polish order, one rune per token.
type Postfix []rune

// String renders the tokens separated by single spaces ("a b ,").
func (p Postfix) String() string {
	parts := make([]string, len(p))
	for i, r := range p {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// Operators counts the operator tokens.
func (p Postfix) Operators() int {
	n := 0
	for _, r := range p {
		if IsOperator(r) {
			n++
		}
	}
	return n
}

// Normalize substitutes escapes, strips whitespace and removes empty
// parenthesis pairs until none remain.
func Normalize(raw string) string {
	s := escapes.Replace(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return RemoveEmptyParens(s)
}

// RemoveEmptyParens deletes "()" repeatedly, so "(())" collapses entirely.
func RemoveEmptyParens(s string) string {
	for {
		next := strings.ReplaceAll(s, "()", "")
		if next == s {
			return s
		}
		s = next
	}
}

// Prepare normalizes raw and makes every concatenation explicit.
func Prepare(raw string) string {
	return InsertConcat(Normalize(raw))
}

// InsertConcat inserts the concatenation operator between adjacent factors.
func InsertConcat(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(runes)-1; i++ {
		sb.WriteRune(runes[i])
		if needsConcat(runes[i], runes[i+1]) {
			sb.WriteRune(Concat)
		}
	}
	sb.WriteRune(runes[len(runes)-1])
	return sb.String()
}

func needsConcat(cur, next rune) bool {
	switch {
	case IsOperand(cur) && IsOperand(next):
		return true
	case IsOperand(cur) && next == OpenParen:
		return true
	case cur == CloseParen && IsOperand(next):
		return true
	case cur == CloseParen && next == OpenParen:
		return true
	case IsUnary(cur) && (IsOperand(next) || next == OpenParen):
		return true
	}
	return false
}

// Parse converts an infix expression to postfix with the shunting-yard
// algorithm. It never fails: input is expected to have passed Validate.
func Parse(raw string) Postfix {
	infix := Prepare(raw)

	out := make(Postfix, 0, len(infix))
	var stack []rune

	for _, r := range infix {
		switch {
		case IsOperand(r):
			out = append(out, r)
		case r == OpenParen:
			stack = append(stack, r)
		case r == CloseParen:
			for len(stack) > 0 && stack[len(stack)-1] != OpenParen {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case IsOperator(r):
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top == OpenParen || Precedence(top) < Precedence(r) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, r)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top != OpenParen {
			out = append(out, top)
		}
	}
	return out
}
