package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// PositiveClosure adds, for every edge entering a final state, a parallel
// edge with the same symbols back to the start state. a must have a
// single start state, which holds for every determinized operand.
func PositiveClosure(a *domain.Automaton) *domain.Automaton {
	out := domain.NewAutomaton("(" + a.Expression + ")+")
	out.Explanation = "Every transition into a final state is mirrored back to the start state, allowing repetition.\n"
	copyInto(out, a)

	start, ok := a.StartState()
	if !ok {
		return out
	}
	for _, t := range a.Transitions() {
		if t.To.IsFinal() {
			out.AddTransition(t.From, t.Symbols, start)
		}
	}
	return out
}

// KleeneClosure is PositiveClosure plus a disconnected state that is both
// start and final, so the empty string is accepted as well.
func KleeneClosure(n *Namer, a *domain.Automaton) *domain.Automaton {
	out := PositiveClosure(a)
	out.Expression = "(" + a.Expression + ")*"
	out.Explanation += "A separate start and final state is added so the empty string is accepted.\n"
	out.AddState(n.NewState(true, true))
	return out
}
