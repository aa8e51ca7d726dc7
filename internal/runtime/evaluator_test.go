package runtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/regfsm/internal/runtime"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, raw string) *domain.Result {
	t.Helper()
	res, err := runtime.NewEvaluator().Evaluate(context.Background(), raw, expr.Parse(raw))
	require.NoError(t, err)
	return res
}

func TestEvaluate_Literal(t *testing.T) {
	res := evaluate(t, "a")

	assert.Equal(t, "a", res.Postfix)
	assert.Empty(t, res.Steps)
	require.Len(t, res.Elementary, 1)

	final := res.Final()
	assert.Same(t, res.Elementary[0], final)
	assert.Equal(t, 2, final.Len())
	require.Len(t, final.Transitions(), 1)
	assert.Equal(t, []rune{'a'}, final.Transitions()[0].Symbols.Sorted())
}

func TestEvaluate_Concatenation(t *testing.T) {
	res := evaluate(t, "ab")

	assert.Equal(t, "a b ,", res.Postfix)
	assert.Len(t, res.Elementary, 2)
	require.Len(t, res.Steps, 1)

	step := res.Steps[0]
	assert.Equal(t, expr.Concat, step.Operator)
	for _, stage := range domain.Stages {
		assert.NotNil(t, step.Stage(stage), stage)
	}

	final := res.Final()
	assert.Same(t, step.Simplified, final)
	assert.Equal(t, 3, final.Len())
	assert.Equal(t, "ab", final.Expression)
	assert.True(t, fsm.Accepts(final, "ab"))
	for _, in := range []string{"", "a", "b", "ba", "abb"} {
		assert.False(t, fsm.Accepts(final, in), in)
	}
}

func TestEvaluate_Alternation(t *testing.T) {
	res := evaluate(t, "a|b")

	final := res.Final()
	assert.Equal(t, 2, final.Len())
	assert.True(t, fsm.IsDeterministic(final))
	assert.True(t, fsm.Accepts(final, "a"))
	assert.True(t, fsm.Accepts(final, "b"))
	assert.False(t, fsm.Accepts(final, ""))
	assert.False(t, fsm.Accepts(final, "ab"))
}

func TestEvaluate_Kleene(t *testing.T) {
	res := evaluate(t, "a*")

	assert.Equal(t, "a *", res.Postfix)
	final := res.Final()
	assert.Equal(t, 1, final.Len())
	for _, in := range []string{"", "a", "aa", "aaa"} {
		assert.True(t, fsm.Accepts(final, in), in)
	}
	assert.False(t, fsm.Accepts(final, "b"))
}

func TestEvaluate_EveryStepIsMinimal(t *testing.T) {
	res := evaluate(t, "(a|b)*abb")

	require.Len(t, res.Steps, 5)
	for i, step := range res.Steps {
		assert.True(t, fsm.IsDeterministic(step.Deterministic), "step %d", i)
		assert.True(t, step.Minimized.Equal(fsm.Minimize(step.Minimized)), "step %d", i)
		for _, s := range step.Simplified.States() {
			assert.False(t, s.Composite(), "step %d state %s", i, s)
		}
	}

	final := res.Final()
	assert.Equal(t, 4, final.Len())
	for _, in := range []string{"abb", "aabb", "babb", "abababb"} {
		assert.True(t, fsm.Accepts(final, in), in)
	}
	for _, in := range []string{"", "ab", "abba", "bb"} {
		assert.False(t, fsm.Accepts(final, in), in)
	}
}

func TestEvaluate_Identities(t *testing.T) {
	tests := []struct {
		raw     string
		accepts []string
		rejects []string
	}{
		{raw: "aØ", rejects: []string{"", "a"}},
		{raw: "Øa", rejects: []string{"", "a"}},
		{raw: "aε", accepts: []string{"a"}, rejects: []string{""}},
		{raw: "a|Ø", accepts: []string{"a"}, rejects: []string{""}},
		{raw: "ε*", accepts: []string{""}, rejects: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			final := evaluate(t, tt.raw).Final()
			for _, in := range tt.accepts {
				assert.True(t, fsm.Accepts(final, in), in)
			}
			for _, in := range tt.rejects {
				assert.False(t, fsm.Accepts(final, in), in)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	ctx := context.Background()
	ev := runtime.NewEvaluator()

	_, err := ev.Evaluate(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyExpression)

	_, err = ev.Evaluate(ctx, "a,", expr.Postfix{'a', expr.Concat})
	assert.ErrorIs(t, err, domain.ErrStackUnderflow)

	_, err = ev.Evaluate(ctx, "*", expr.Postfix{expr.Kleene})
	assert.ErrorIs(t, err, domain.ErrStackUnderflow)

	_, err = ev.Evaluate(ctx, "ab", expr.Postfix{'a', 'b'})
	assert.ErrorIs(t, err, domain.ErrDanglingOperand)

	_, err = ev.Evaluate(ctx, "#", expr.Postfix{'#'})
	assert.ErrorIs(t, err, domain.ErrInvalidOperand)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ev.Evaluate(cancelled, "a", expr.Parse("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_Hooks(t *testing.T) {
	var symbols []rune
	var steps []int
	var complete *domain.CompleteEvent

	hooks := domain.LifecycleHooks{
		OnElementary: func(_ context.Context, e *domain.ElementaryEvent) {
			assert.Equal(t, domain.EventElementary, e.Type)
			symbols = append(symbols, e.Symbol)
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			assert.Equal(t, "ab*", e.Expression)
			steps = append(steps, e.Index)
		},
		OnComplete: func(_ context.Context, e *domain.CompleteEvent) {
			complete = e
		},
	}

	ev := runtime.NewEvaluator(runtime.WithLifecycleHooks(hooks))
	_, err := ev.Evaluate(context.Background(), "ab*", expr.Parse("ab*"))
	require.NoError(t, err)

	assert.Equal(t, []rune{'a', 'b'}, symbols)
	assert.Equal(t, []int{0, 1}, steps)
	require.NotNil(t, complete)
	assert.Equal(t, 2, complete.Steps)
	assert.NoError(t, complete.Err)
	assert.Positive(t, complete.States)

	_, err = ev.Evaluate(context.Background(), "ab", expr.Postfix{'a', 'b'})
	require.Error(t, err)
	assert.ErrorIs(t, complete.Err, domain.ErrDanglingOperand)
	assert.Zero(t, complete.States)
}

func TestEvaluate_Reproducible(t *testing.T) {
	const raw = "(a|b)*a(b|c)+"
	want := evaluate(t, raw).Final().Format()

	ev := runtime.NewEvaluator()
	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := ev.Evaluate(context.Background(), raw, expr.Parse(raw))
			if err == nil {
				got[i] = res.Final().Format()
			}
		}(i)
	}
	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i], "run %d", i)
	}
}
