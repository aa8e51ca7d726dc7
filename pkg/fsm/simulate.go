package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// Accepts runs a on input, tracking every active state, and reports
// whether a final state is active once the input is consumed.
func Accepts(a *domain.Automaton, input string) bool {
	_, ok := Trace(a, input)
	return ok
}

// Trace runs a on input and returns the states active at the end, in
// canonical order, and whether one of them is final. The run stops early
// with no active states once no edge matches.
func Trace(a *domain.Automaton, input string) ([]domain.State, bool) {
	current := a.StartStates()
	for _, r := range input {
		next := make(map[string]domain.State)
		for _, s := range current {
			for _, t := range a.Targets(s, r) {
				next[t.Name()] = t
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		current = stateList(next)
	}

	for _, s := range current {
		if s.IsFinal() {
			return current, true
		}
	}
	return current, false
}

// IsDeterministic reports whether a has at most one start state and no
// state with two edges on the same symbol.
func IsDeterministic(a *domain.Automaton) bool {
	if len(a.StartStates()) > 1 {
		return false
	}
	for _, s := range a.States() {
		used := make(domain.SymbolSet)
		for _, t := range a.TransitionsFrom(s) {
			for r := range t.Symbols {
				if used.Has(r) {
					return false
				}
				used[r] = struct{}{}
			}
		}
	}
	return true
}

// Equivalent reports whether a and b accept the same language. Both are
// determinized and walked in lockstep; a missing edge counts as a dead state.
func Equivalent(a, b *domain.Automaton) bool {
	da, db := Determinize(a), Determinize(b)

	alphabet := make(domain.SymbolSet)
	for _, r := range da.Alphabet() {
		alphabet[r] = struct{}{}
	}
	for _, r := range db.Alphabet() {
		alphabet[r] = struct{}{}
	}

	type pair struct{ a, b string }
	lookup := func(d *domain.Automaton, name string) (domain.State, bool) {
		if name == "" {
			return domain.State{}, false
		}
		return d.Lookup(name)
	}
	step := func(d *domain.Automaton, name string, r rune) string {
		s, ok := lookup(d, name)
		if !ok {
			return ""
		}
		if targets := d.Targets(s, r); len(targets) > 0 {
			return targets[0].Name()
		}
		return ""
	}

	startA, startB := "", ""
	if s, ok := da.StartState(); ok {
		startA = s.Name()
	}
	if s, ok := db.StartState(); ok {
		startB = s.Name()
	}

	seen := map[pair]bool{}
	queue := []pair{{startA, startB}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p] {
			continue
		}
		seen[p] = true

		sa, okA := lookup(da, p.a)
		sb, okB := lookup(db, p.b)
		if (okA && sa.IsFinal()) != (okB && sb.IsFinal()) {
			return false
		}
		if !okA && !okB {
			continue
		}
		for _, r := range alphabet.Sorted() {
			queue = append(queue, pair{step(da, p.a, r), step(db, p.b, r)})
		}
	}
	return true
}
