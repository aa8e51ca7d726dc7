package schema

import (
	"time"

	"github.com/aretw0/regfsm/pkg/domain"
)

// State is a flattened domain.State. Name is derived from Tags and is
// checked against them when decoding.
type State struct {
	Name  string `json:"name" yaml:"name"`
	Tags  []int  `json:"tags" yaml:"tags"`
	Start bool   `json:"start,omitempty" yaml:"start,omitempty"`
	Final bool   `json:"final,omitempty" yaml:"final,omitempty"`
}

// Transition is one coalesced edge; each symbol is a one-character string.
type Transition struct {
	From    string   `json:"from" yaml:"from"`
	To      string   `json:"to" yaml:"to"`
	Symbols []string `json:"symbols" yaml:"symbols"`
}

// Automaton is a flattened domain.Automaton in canonical order.
type Automaton struct {
	Expression  string       `json:"expression" yaml:"expression"`
	Explanation string       `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	States      []State      `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
	// Definition is the formal M=(Q,∑,δ,S,F) rendering. Informational only.
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// Step is one operator application with its four pipeline stages.
type Step struct {
	Index         int       `json:"index" yaml:"index"`
	Operator      string    `json:"operator" yaml:"operator"`
	Operation     Automaton `json:"operation" yaml:"operation"`
	Deterministic Automaton `json:"deterministic" yaml:"deterministic"`
	Minimized     Automaton `json:"minimized" yaml:"minimized"`
	Simplified    Automaton `json:"simplified" yaml:"simplified"`
}

// Result is the wire form of domain.Result. Final duplicates the last
// simplified automaton so readers need not know the derivation rules.
type Result struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty"`
	Expression string      `json:"expression" yaml:"expression"`
	Postfix    string      `json:"postfix" yaml:"postfix"`
	CreatedAt  time.Time   `json:"created_at" yaml:"created_at"`
	Elementary []Automaton `json:"elementary" yaml:"elementary"`
	Steps      []Step      `json:"steps" yaml:"steps"`
	Final      *Automaton  `json:"final,omitempty" yaml:"final,omitempty"`
}

// Summary is the short listing form of a stored result.
type Summary struct {
	ID         string    `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	Steps      int       `json:"steps" yaml:"steps"`
	States     int       `json:"states" yaml:"states"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// FromState flattens s.
func FromState(s domain.State) State {
	return State{Name: s.Name(), Tags: s.Tags(), Start: s.IsStart(), Final: s.IsFinal()}
}

// FromAutomaton flattens a. A nil automaton yields the zero value.
func FromAutomaton(a *domain.Automaton) Automaton {
	if a == nil {
		return Automaton{}
	}
	out := Automaton{
		Expression:  a.Expression,
		Explanation: a.Explanation,
		States:      make([]State, 0, a.Len()),
		Transitions: []Transition{},
		Definition:  a.Format(),
	}
	for _, s := range a.States() {
		out.States = append(out.States, FromState(s))
	}
	for _, t := range a.Transitions() {
		symbols := make([]string, 0, len(t.Symbols))
		for _, r := range t.Symbols.Sorted() {
			symbols = append(symbols, string(r))
		}
		out.Transitions = append(out.Transitions, Transition{From: t.From.Name(), To: t.To.Name(), Symbols: symbols})
	}
	return out
}

// FromResult flattens r.
func FromResult(r *domain.Result) Result {
	out := Result{
		ID:         r.ID,
		Expression: r.Expression,
		Postfix:    r.Postfix,
		CreatedAt:  r.CreatedAt,
		Elementary: make([]Automaton, 0, len(r.Elementary)),
		Steps:      make([]Step, 0, len(r.Steps)),
	}
	for _, a := range r.Elementary {
		out.Elementary = append(out.Elementary, FromAutomaton(a))
	}
	for i, g := range r.Steps {
		out.Steps = append(out.Steps, Step{
			Index:         i,
			Operator:      string(g.Operator),
			Operation:     FromAutomaton(g.Operation),
			Deterministic: FromAutomaton(g.Deterministic),
			Minimized:     FromAutomaton(g.Minimized),
			Simplified:    FromAutomaton(g.Simplified),
		})
	}
	if final := r.Final(); final != nil {
		f := FromAutomaton(final)
		out.Final = &f
	}
	return out
}

// Summarize builds the listing form of r.
func Summarize(r *domain.Result) Summary {
	s := Summary{ID: r.ID, Expression: r.Expression, Steps: len(r.Steps), CreatedAt: r.CreatedAt}
	if final := r.Final(); final != nil {
		s.States = final.Len()
	}
	return s
}

// ToDomain validates a and rebuilds the domain automaton.
func (a Automaton) ToDomain() (*domain.Automaton, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	out := domain.NewAutomaton(a.Expression)
	out.Explanation = a.Explanation
	states := make(map[string]domain.State, len(a.States))
	for _, s := range a.States {
		st := domain.NewStateFromTags(s.Tags, s.Start, s.Final)
		states[s.Name] = st
		out.SetState(st)
	}
	for _, t := range a.Transitions {
		symbols := make(domain.SymbolSet, len(t.Symbols))
		for _, sym := range t.Symbols {
			symbols[[]rune(sym)[0]] = struct{}{}
		}
		out.AddTransition(states[t.From], symbols, states[t.To])
	}
	return out, nil
}

// ToDomain validates every automaton and rebuilds the domain result.
// Final is not read back; it is derived from the steps.
func (r Result) ToDomain() (*domain.Result, error) {
	out := &domain.Result{
		ID:         r.ID,
		Expression: r.Expression,
		Postfix:    r.Postfix,
		CreatedAt:  r.CreatedAt,
	}
	for i, a := range r.Elementary {
		da, err := a.ToDomain()
		if err != nil {
			return nil, wrapField(err, "elementary[%d]", i)
		}
		out.Elementary = append(out.Elementary, da)
	}
	for i, s := range r.Steps {
		op := []rune(s.Operator)
		if len(op) != 1 {
			return nil, &ValidationError{Key: fieldName("steps[%d].operator", i), Reason: "must be a single character", Value: s.Operator}
		}
		g := domain.Group{Operator: op[0]}
		stages := []struct {
			name string
			src  Automaton
			dst  **domain.Automaton
		}{
			{"operation", s.Operation, &g.Operation},
			{"deterministic", s.Deterministic, &g.Deterministic},
			{"minimized", s.Minimized, &g.Minimized},
			{"simplified", s.Simplified, &g.Simplified},
		}
		for _, st := range stages {
			da, err := st.src.ToDomain()
			if err != nil {
				return nil, wrapField(err, "steps[%d]."+st.name, i)
			}
			*st.dst = da
		}
		out.Steps = append(out.Steps, g)
	}
	return out, nil
}
