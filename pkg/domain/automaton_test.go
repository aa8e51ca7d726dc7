package domain_test

import (
	"testing"

	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() *domain.Automaton {
	s0 := domain.NewState(0, true, false)
	s1 := domain.NewState(1, false, false)
	s2 := domain.NewState(2, false, true)

	a := domain.NewAutomaton("ab")
	a.AddTransition(s0, domain.NewSymbolSet('a'), s1)
	a.AddTransition(s1, domain.NewSymbolSet('b'), s2)
	return a
}

func TestAutomaton_AddTransitionCoalesces(t *testing.T) {
	s0 := domain.NewState(0, true, false)
	s1 := domain.NewState(1, false, true)

	a := domain.NewAutomaton("a|b")
	a.AddTransition(s0, domain.NewSymbolSet('a'), s1)
	a.AddTransition(s0, domain.NewSymbolSet('b'), s1)

	edges := a.Transitions()
	require.Len(t, edges, 1)
	assert.Equal(t, []rune{'a', 'b'}, edges[0].Symbols.Sorted())
	assert.Equal(t, []rune{'a', 'b'}, a.Alphabet())
}

func TestAutomaton_EmptySymbolsRegisterStatesOnly(t *testing.T) {
	s := domain.NewState(0, true, true)
	a := domain.NewAutomaton(string(domain.Epsilon))
	a.AddTransition(s, nil, s)

	assert.Equal(t, 1, a.Len())
	assert.Empty(t, a.Transitions())
	assert.Len(t, a.FinalStates(), 1)
}

func TestAutomaton_AddStateKeepsExistingFlags(t *testing.T) {
	a := domain.NewAutomaton("")
	a.AddState(domain.NewState(0, true, false))
	stored := a.AddState(domain.NewState(0, false, true))

	assert.True(t, stored.IsStart())
	assert.False(t, stored.IsFinal())

	a.SetState(domain.NewState(0, false, true))
	got, ok := a.Lookup("s0")
	require.True(t, ok)
	assert.False(t, got.IsStart())
	assert.True(t, got.IsFinal())
}

func TestAutomaton_Format(t *testing.T) {
	want := "M=(Q,∑,δ,S,F)\n" +
		"Q={s0, s1, s2}\n" +
		"∑={a, b}\n" +
		"δ: Q x ∑ --> Q: {\n" +
		"     δ(s0, a) = s1\n" +
		"     δ(s1, b) = s2\n" +
		"}\n" +
		"S={s0}\n" +
		"F={s2}"
	assert.Equal(t, want, chain().Format())
}

func TestAutomaton_CloneIsIndependent(t *testing.T) {
	orig := chain()
	cp := orig.Clone()
	require.True(t, orig.Equal(cp))

	cp.AddTransition(domain.NewState(2, false, true), domain.NewSymbolSet('c'), domain.NewState(0, true, false))
	cp.SetState(domain.NewState(1, false, true))

	assert.False(t, orig.Equal(cp))
	assert.Len(t, orig.Transitions(), 2)
	assert.Len(t, orig.FinalStates(), 1)
}

func TestAutomaton_EqualIgnoresLabels(t *testing.T) {
	a := chain()
	b := chain()
	b.Expression = "other"
	b.Explanation = "different"
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Format(), b.Format())

	b.SetState(domain.NewState(1, false, true))
	assert.False(t, a.Equal(b))
}

func TestResult_Final(t *testing.T) {
	elem := chain()
	r := &domain.Result{Elementary: []*domain.Automaton{elem}}
	assert.Same(t, elem, r.Final())

	simplified := chain()
	r.Steps = append(r.Steps, domain.Group{Simplified: simplified})
	assert.Same(t, simplified, r.Final())

	var empty *domain.Result
	assert.Nil(t, empty.Final())
}

func TestResult_Clone(t *testing.T) {
	r := &domain.Result{
		ID:         "r1",
		Elementary: []*domain.Automaton{chain()},
		Steps:      []domain.Group{{Operator: '*', Operation: chain(), Simplified: chain()}},
	}

	c := r.Clone()
	require.NotSame(t, r, c)
	assert.Equal(t, "r1", c.ID)
	assert.NotSame(t, r.Elementary[0], c.Elementary[0])
	assert.True(t, r.Final().Equal(c.Final()))
	assert.Nil(t, c.Steps[0].Deterministic)

	c.Steps[0].Simplified.AddTransition(domain.NewState(2, false, true), domain.NewSymbolSet('c'), domain.NewState(0, true, false))
	assert.False(t, r.Final().Equal(c.Final()))

	var nilResult *domain.Result
	assert.Nil(t, nilResult.Clone())
}

func TestResult_Select(t *testing.T) {
	elem := chain()
	op, det, minimized, simple := chain(), chain(), chain(), chain()
	r := &domain.Result{
		Elementary: []*domain.Automaton{elem},
		Steps:      []domain.Group{{Operator: '*', Operation: op, Deterministic: det, Minimized: minimized, Simplified: simple}},
	}

	tests := map[string]*domain.Automaton{
		"":                     simple,
		"result":               simple,
		"elementary:0":         elem,
		"step:0":               simple,
		"step:0:operation":     op,
		"step:0:deterministic": det,
		"step:0:minimized":     minimized,
		" step:0:simplified ":  simple,
	}
	for sel, want := range tests {
		got, err := r.Select(sel)
		require.NoError(t, err, sel)
		assert.Same(t, want, got, sel)
	}

	for _, sel := range []string{"elementary:1", "elementary:x", "step:-1", "step:0:bogus", "step", "result:0", "nope"} {
		_, err := r.Select(sel)
		assert.ErrorIs(t, err, domain.ErrInvalidSelector, sel)
	}

	_, err := (&domain.Result{}).Select("result")
	assert.ErrorIs(t, err, domain.ErrInvalidSelector)
}
