package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Epsilon and EmptySet are the operand symbols for the empty string and the empty language.
const (
	Epsilon  rune = 'ε'
	EmptySet rune = 'Ø'
)

// SymbolSet is a set of input symbols labelling one edge.
type SymbolSet map[rune]struct{}

// NewSymbolSet builds a set from the given symbols.
func NewSymbolSet(symbols ...rune) SymbolSet {
	set := make(SymbolSet, len(symbols))
	for _, r := range symbols {
		set[r] = struct{}{}
	}
	return set
}

func (s SymbolSet) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the symbols in ascending order.
func (s SymbolSet) Sorted() []rune {
	out := make([]rune, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func (s SymbolSet) Clone() SymbolSet {
	out := make(SymbolSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

func (s SymbolSet) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s.Sorted() {
		parts = append(parts, string(r))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Transition is one coalesced edge: every symbol leading from From to To.
type Transition struct {
	From    State
	To      State
	Symbols SymbolSet
}

// Automaton is a finite state machine stored as source -> target -> symbols.
//
// Every state referenced by an edge is also registered as a state, so
// isolated states (no edges at all) are representable. Expression and
// Explanation are labels for display and never read by the algorithms.
type Automaton struct {
	Expression  string
	Explanation string

	states map[string]State
	edges  map[string]map[string]SymbolSet
}

// NewAutomaton creates an empty automaton labelled with expression.
func NewAutomaton(expression string) *Automaton {
	return &Automaton{
		Expression: expression,
		states:     make(map[string]State),
		edges:      make(map[string]map[string]SymbolSet),
	}
}

// AddState registers s if no state with the same identity exists yet and
// returns the stored state. An existing state keeps its flags.
func (a *Automaton) AddState(s State) State {
	if s.IsZero() {
		return s
	}
	key := s.Name()
	if existing, ok := a.states[key]; ok {
		return existing
	}
	a.states[key] = s
	a.edges[key] = make(map[string]SymbolSet)
	return s
}

// SetState registers s, replacing the flags of an existing state with the same identity.
func (a *Automaton) SetState(s State) {
	if s.IsZero() {
		return
	}
	key := s.Name()
	a.states[key] = s
	if _, ok := a.edges[key]; !ok {
		a.edges[key] = make(map[string]SymbolSet)
	}
}

// AddTransition adds an edge from src to dst for every symbol given,
// merging with an existing edge between the same pair. Both endpoints are
// registered as states even when symbols is empty; an edge with no
// symbols is never stored.
func (a *Automaton) AddTransition(src State, symbols SymbolSet, dst State) {
	if src.IsZero() || dst.IsZero() {
		return
	}
	a.AddState(src)
	a.AddState(dst)
	if len(symbols) == 0 {
		return
	}

	inner := a.edges[src.Name()]
	set, ok := inner[dst.Name()]
	if !ok {
		set = make(SymbolSet, len(symbols))
		inner[dst.Name()] = set
	}
	for r := range symbols {
		set[r] = struct{}{}
	}
}

// Len returns the number of states.
func (a *Automaton) Len() int {
	return len(a.states)
}

// Lookup returns the stored state with the given canonical name.
func (a *Automaton) Lookup(name string) (State, bool) {
	s, ok := a.states[name]
	return s, ok
}

// Has reports whether a state with the identity of s is present.
func (a *Automaton) Has(s State) bool {
	_, ok := a.states[s.Name()]
	return ok
}

// States returns all states in canonical order.
func (a *Automaton) States() []State {
	out := make([]State, 0, len(a.states))
	for _, s := range a.states {
		out = append(out, s)
	}
	SortStates(out)
	return out
}

// StartStates returns the start states in canonical order.
func (a *Automaton) StartStates() []State {
	return a.filter(State.IsStart)
}

// FinalStates returns the final states in canonical order.
func (a *Automaton) FinalStates() []State {
	return a.filter(State.IsFinal)
}

// StartState returns the first start state in canonical order.
func (a *Automaton) StartState() (State, bool) {
	starts := a.StartStates()
	if len(starts) == 0 {
		return State{}, false
	}
	return starts[0], true
}

func (a *Automaton) filter(keep func(State) bool) []State {
	var out []State
	for _, s := range a.States() {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// TransitionsFrom returns the outgoing edges of src, targets in canonical order.
func (a *Automaton) TransitionsFrom(src State) []Transition {
	inner := a.edges[src.Name()]
	if len(inner) == 0 {
		return nil
	}
	from := a.states[src.Name()]

	targets := make([]State, 0, len(inner))
	for name := range inner {
		targets = append(targets, a.states[name])
	}
	SortStates(targets)

	out := make([]Transition, 0, len(targets))
	for _, t := range targets {
		out = append(out, Transition{From: from, To: t, Symbols: inner[t.Name()].Clone()})
	}
	return out
}

// Transitions returns every edge, sources and targets in canonical order.
func (a *Automaton) Transitions() []Transition {
	var out []Transition
	for _, s := range a.States() {
		out = append(out, a.TransitionsFrom(s)...)
	}
	return out
}

// Targets returns the states reachable from src on symbol r.
func (a *Automaton) Targets(src State, r rune) []State {
	var out []State
	for name, set := range a.edges[src.Name()] {
		if set.Has(r) {
			out = append(out, a.states[name])
		}
	}
	SortStates(out)
	return out
}

// Alphabet returns every symbol used by some edge, in ascending order.
func (a *Automaton) Alphabet() []rune {
	set := make(SymbolSet)
	for _, inner := range a.edges {
		for _, symbols := range inner {
			for r := range symbols {
				set[r] = struct{}{}
			}
		}
	}
	return set.Sorted()
}

// Clone returns a deep copy sharing no maps with a.
func (a *Automaton) Clone() *Automaton {
	out := NewAutomaton(a.Expression)
	out.Explanation = a.Explanation
	for key, s := range a.states {
		out.states[key] = s.WithStart(s.start)
		inner := make(map[string]SymbolSet, len(a.edges[key]))
		for dst, symbols := range a.edges[key] {
			inner[dst] = symbols.Clone()
		}
		out.edges[key] = inner
	}
	return out
}

// Equal reports structural equality: the same states with the same flags
// and the same edges. Labels are ignored.
func (a *Automaton) Equal(b *Automaton) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.states) != len(b.states) {
		return false
	}
	for key, s := range a.states {
		other, ok := b.states[key]
		if !ok || other.start != s.start || other.final != s.final {
			return false
		}
		if len(a.edges[key]) != len(b.edges[key]) {
			return false
		}
		for dst, symbols := range a.edges[key] {
			otherSymbols, ok := b.edges[key][dst]
			if !ok || !slices.Equal(symbols.Sorted(), otherSymbols.Sorted()) {
				return false
			}
		}
	}
	return true
}

// Format renders the formal definition M=(Q,∑,δ,S,F) in canonical order.
func (a *Automaton) Format() string {
	var sb strings.Builder
	sb.WriteString("M=(Q,∑,δ,S,F)")
	sb.WriteString("\nQ=" + joinStates(a.States()))

	symbols := make([]string, 0)
	for _, r := range a.Alphabet() {
		symbols = append(symbols, string(r))
	}
	sb.WriteString("\n∑={" + strings.Join(symbols, ", ") + "}")

	sb.WriteString("\nδ: Q x ∑ --> Q: {")
	for _, t := range a.Transitions() {
		for _, r := range t.Symbols.Sorted() {
			fmt.Fprintf(&sb, "\n     δ(%s, %c) = %s", t.From, r, t.To)
		}
	}
	sb.WriteString("\n}")

	sb.WriteString("\nS=" + joinStates(a.StartStates()))
	sb.WriteString("\nF=" + joinStates(a.FinalStates()))
	return sb.String()
}

func (a *Automaton) String() string {
	return a.Format()
}

func joinStates(states []State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name()
	}
	return "{" + strings.Join(names, ", ") + "}"
}
