package fsm

import (
	"fmt"

	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
)

// FromSymbol builds the elementary automaton for one operand:
//   - ε: a single state that is both start and final,
//   - Ø: a single start state that accepts nothing,
//   - any other symbol c: start --c--> final.
func FromSymbol(n *Namer, c rune) (*domain.Automaton, error) {
	if !expr.IsOperand(c) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidOperand, c)
	}

	a := domain.NewAutomaton(string(c))
	switch c {
	case domain.Epsilon:
		a.AddState(n.NewState(true, true))
		a.Explanation = "The empty string is accepted by a single state that is both start and final.\n"
	case domain.EmptySet:
		a.AddState(n.NewState(true, false))
		a.Explanation = "The empty set is a lone start state without transitions; nothing is accepted.\n"
	default:
		start := n.NewState(true, false)
		final := n.NewState(false, true)
		a.AddTransition(start, domain.NewSymbolSet(c), final)
		a.Explanation = fmt.Sprintf("The symbol %c leads from the start state to a final state.\n", c)
	}
	return a, nil
}

// denotes reports whether a is labelled as exactly the given operand.
func denotes(a *domain.Automaton, c rune) bool {
	return a.Expression == string(c)
}

// copyInto registers every state and edge of src in dst.
func copyInto(dst, src *domain.Automaton) {
	for _, s := range src.States() {
		dst.AddState(s)
	}
	for _, t := range src.Transitions() {
		dst.AddTransition(t.From, t.Symbols, t.To)
	}
}
