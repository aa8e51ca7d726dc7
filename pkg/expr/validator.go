package expr

import "unicode/utf8"

// DefaultMaxLength is the longest expression accepted, counted in runes
// after empty parentheses are removed.
const DefaultMaxLength = 30

// Validator checks infix expressions before they reach the parser.
type Validator struct {
	MaxLength int
}

// NewValidator returns a validator enforcing DefaultMaxLength.
func NewValidator() *Validator {
	return &Validator{MaxLength: DefaultMaxLength}
}

// Validate uses the default validator.
func Validate(raw string) error {
	return NewValidator().Validate(raw)
}

// ValidateAll uses the default validator.
func ValidateAll(raw string) error {
	return NewValidator().ValidateAll(raw)
}

// Validate returns the first rule violation as a *SyntaxError, or nil.
func (v *Validator) Validate(raw string) error {
	errs := v.check(raw, true)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// ValidateAll reports every violation at once as an *AggregateError.
func (v *Validator) ValidateAll(raw string) error {
	errs := v.check(raw, false)
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

type rule func(s []rune) []*SyntaxError

func (v *Validator) check(raw string, firstOnly bool) []*SyntaxError {
	s := []rune(Normalize(raw))

	rules := []rule{
		v.checkLength,
		checkCharacters,
		checkParentheses,
		checkUnaryPlacement,
		checkBinaryPlacement,
	}

	var errs []*SyntaxError
	for _, r := range rules {
		found := r(s)
		if len(found) == 0 {
			continue
		}
		if firstOnly {
			return found[:1]
		}
		errs = append(errs, found...)
	}
	return errs
}

func (v *Validator) checkLength(s []rune) []*SyntaxError {
	limit := v.MaxLength
	if limit <= 0 {
		limit = DefaultMaxLength
	}
	if len(s) > limit {
		return []*SyntaxError{newSyntaxError(KindTooLong, -1, 0,
			"expression is too long: %d characters, at most %d allowed", len(s), limit)}
	}
	return nil
}

func checkCharacters(s []rune) []*SyntaxError {
	var errs []*SyntaxError
	for i, c := range s {
		if !IsOperand(c) && !IsOperator(c) {
			errs = append(errs, newSyntaxError(KindInvalidCharacter, i, c,
				"invalid character in expression: %q at position %d", c, i))
		}
	}
	return errs
}

func checkParentheses(s []rune) []*SyntaxError {
	depth := 0
	lastOpen := -1
	for i, c := range s {
		switch c {
		case OpenParen:
			depth++
			lastOpen = i
		case CloseParen:
			depth--
			if depth < 0 {
				return []*SyntaxError{newSyntaxError(KindUnopenedParen, i, c,
					"more closing than opening parentheses at position %d", i)}
			}
		}
	}
	if depth != 0 {
		return []*SyntaxError{newSyntaxError(KindUnclosedParen, lastOpen, OpenParen,
			"unbalanced parentheses: %d left open", depth)}
	}
	return nil
}

func checkUnaryPlacement(s []rune) []*SyntaxError {
	var errs []*SyntaxError
	for i, c := range s {
		if !IsUnary(c) {
			continue
		}
		if i == 0 {
			errs = append(errs, newSyntaxError(KindUnaryPlacement, i, c,
				"expression cannot start with unary operator %q", c))
			continue
		}
		if prev := s[i-1]; prev == OpenParen || IsBinary(prev) {
			errs = append(errs, newSyntaxError(KindUnaryPlacement, i, c,
				"unary operator %q cannot follow %q", c, prev))
		}
	}
	return errs
}

func checkBinaryPlacement(s []rune) []*SyntaxError {
	var errs []*SyntaxError
	for i, c := range s {
		if !IsBinary(c) {
			continue
		}
		if i == 0 || i == len(s)-1 {
			errs = append(errs, newSyntaxError(KindBinaryPlacement, i, c,
				"expression cannot start or end with binary operator %q", c))
			continue
		}
		prev, next := s[i-1], s[i+1]
		switch {
		case IsBinary(prev) || IsBinary(next) || IsUnary(next):
			errs = append(errs, newSyntaxError(KindBinaryPlacement, i, c,
				"binary operator %q cannot be adjacent to another operator", c))
		case prev == OpenParen || next == CloseParen:
			errs = append(errs, newSyntaxError(KindBinaryPlacement, i, c,
				"binary operator %q cannot sit directly inside parentheses", c))
		}
	}
	return errs
}

// Length returns the rune length of the normalized expression.
func Length(raw string) int {
	return utf8.RuneCountInString(Normalize(raw))
}
