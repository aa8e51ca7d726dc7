package expr_test

import (
	"testing"

	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab", "a,b"},
		{"a(b)", "a,(b)"},
		{"(a)b", "(a),b"},
		{"(a)(b)", "(a),(b)"},
		{"a*b", "a*,b"},
		{"a+(b)", "a+,(b)"},
		{"a|b", "a|b"},
		{" a  b ", "a,b"},
		{`a\e`, "a,ε"},
		{`\0b`, "Ø,b"},
		{"a()b", "a,b"},
		{"(())", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.Prepare(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a", "a"},
		{"ab", "a b ,"},
		{"a|b", "a b |"},
		{"a*", "a *"},
		{"a|bc", "a b c , |"},
		{"(a|b)c", "a b | c ,"},
		{"abc", "a b , c ,"},
		{"a+b*(c|d)", "a + b * , c d | ,"},
		{"(ab)*", "a b , *"},
		{`\e|a`, "ε a |"},
		{"a,b", "a b ,"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.Parse(tt.in).String())
		})
	}
}

func TestPostfix_Operators(t *testing.T) {
	assert.Equal(t, 0, expr.Parse("a").Operators())
	assert.Equal(t, 3, expr.Parse("(a|b)*c").Operators())
}

func TestClassification(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '7', 'ε', 'Ø'} {
		assert.True(t, expr.IsOperand(r), string(r))
	}
	for _, r := range []rune{'|', ',', '*', '+', '(', ')', '#', ' '} {
		assert.False(t, expr.IsOperand(r), string(r))
	}

	assert.True(t, expr.IsUnary('*'))
	assert.True(t, expr.IsUnary('+'))
	assert.True(t, expr.IsBinary('|'))
	assert.True(t, expr.IsBinary(','))
	assert.False(t, expr.IsBinary('('))

	assert.Less(t, expr.Precedence('|'), expr.Precedence(','))
	assert.Less(t, expr.Precedence(','), expr.Precedence('*'))
	assert.Equal(t, expr.Precedence('*'), expr.Precedence('+'))

	op, ok := expr.Lookup('(')
	assert.True(t, ok)
	assert.Equal(t, expr.Grouping, op.Arity)
}
