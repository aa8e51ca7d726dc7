package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// Concat joins a and b sequentially.
//
// Ø absorbs and ε is neutral. Otherwise b's start state is replaced by each
// final state of a: every edge of b touching its start state is copied once
// per final state of a with that endpoint substituted. a's final states stay
// final only if b's start state was final. The result is generally an NFA.
func Concat(a, b *domain.Automaton) *domain.Automaton {
	switch {
	case denotes(a, domain.EmptySet):
		return a.Clone()
	case denotes(b, domain.EmptySet):
		return b.Clone()
	case denotes(b, domain.Epsilon):
		return a.Clone()
	case denotes(a, domain.Epsilon):
		return b.Clone()
	}

	out := domain.NewAutomaton(a.Expression + b.Expression)
	out.Explanation = "Connecting the final states of the first automaton to the start state of the second.\n"

	bStart, _ := b.StartState()
	aFinals := a.FinalStates()

	junction := func(s domain.State) domain.State {
		if s.IsFinal() && !bStart.IsFinal() {
			return s.WithFinal(false)
		}
		return s
	}

	for _, s := range a.States() {
		out.AddState(junction(s))
	}
	for _, t := range a.Transitions() {
		out.AddTransition(junction(t.From), t.Symbols, junction(t.To))
	}

	for _, s := range b.States() {
		if !s.Same(bStart) {
			out.AddState(s.WithStart(false))
		}
	}
	for _, t := range b.Transitions() {
		fromStart, toStart := t.From.Same(bStart), t.To.Same(bStart)
		if !fromStart && !toStart {
			out.AddTransition(t.From, t.Symbols, t.To)
			continue
		}
		for _, f := range aFinals {
			src, dst := t.From, t.To
			if fromStart {
				src = junction(f)
			}
			if toStart {
				dst = junction(f)
			}
			out.AddTransition(src, t.Symbols, dst)
		}
	}
	return out
}
