package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// Alternate unions a and b without introducing a new state. The result
// keeps both start states; determinization merges them. Ø is neutral.
func Alternate(a, b *domain.Automaton) *domain.Automaton {
	switch {
	case denotes(a, domain.EmptySet):
		return b.Clone()
	case denotes(b, domain.EmptySet):
		return a.Clone()
	}

	out := domain.NewAutomaton("(" + a.Expression + "|" + b.Expression + ")")
	out.Explanation = "Placing both automata side by side; either start state may begin a match.\n"
	copyInto(out, a)
	copyInto(out, b)
	return out
}
