package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// Simplify gives every fused state a single fresh tag so names stay short.
// Flags and edges are untouched. Tags are allocated in canonical state order.
func Simplify(n *Namer, a *domain.Automaton) *domain.Automaton {
	out := domain.NewAutomaton(a.Expression)
	out.Explanation = "Renaming states to make the automaton more readable.\n"

	renamed := make(map[string]domain.State, a.Len())
	for _, s := range a.States() {
		r := s
		if s.Composite() {
			r = s.WithTag(n.Next())
		}
		renamed[s.Name()] = r
		out.AddState(r)
	}
	for _, t := range a.Transitions() {
		out.AddTransition(renamed[t.From.Name()], t.Symbols, renamed[t.To.Name()])
	}
	return out
}
