package fsm

import (
	"slices"
	"strings"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Determinize applies the subset construction. Each reachable set of NFA
// states becomes one fused DFA state; the start set is the set of all NFA
// start states. Unreachable states are dropped. The expression label is
// carried over unchanged.
func Determinize(nfa *domain.Automaton) *domain.Automaton {
	out := domain.NewAutomaton(nfa.Expression)
	out.Explanation = "Transforming the automaton into a deterministic version: sets of reachable states become single states.\n"

	starts := nfa.StartStates()
	if len(starts) == 0 {
		return out
	}

	startState := domain.Fuse(starts...)
	seen := map[string]domain.State{setKey(starts): startState}
	queue := [][]domain.State{starts}
	out.AddState(startState)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		src := seen[setKey(current)]

		moves := make(map[rune]map[string]domain.State)
		for _, s := range current {
			for _, t := range nfa.TransitionsFrom(s) {
				for r := range t.Symbols {
					if moves[r] == nil {
						moves[r] = make(map[string]domain.State)
					}
					moves[r][t.To.Name()] = t.To
				}
			}
		}

		for _, r := range sortedSymbols(moves) {
			target := stateList(moves[r])
			key := setKey(target)
			dst, ok := seen[key]
			if !ok {
				dst = domain.Fuse(target...).WithStart(false)
				seen[key] = dst
				queue = append(queue, target)
				out.AddState(dst)
			}
			out.AddTransition(src, domain.NewSymbolSet(r), dst)
		}
	}
	return out
}

// setKey identifies a set of states independent of order.
func setKey(states []domain.State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name()
	}
	slices.Sort(names)
	return strings.Join(names, "|")
}

func stateList(m map[string]domain.State) []domain.State {
	out := make([]domain.State, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	domain.SortStates(out)
	return out
}

func sortedSymbols[V any](m map[rune]V) []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
