package domain

import "time"

// Stage names one of the four automata recorded for an operator application.
type Stage string

const (
	StageOperation     Stage = "operation"
	StageDeterministic Stage = "deterministic"
	StageMinimized     Stage = "minimized"
	StageSimplified    Stage = "simplified"
)

// Stages lists the pipeline stages in the order they are produced.
var Stages = []Stage{StageOperation, StageDeterministic, StageMinimized, StageSimplified}

// Group records one operator application: the raw operator output and the
// same automaton after determinization, minimization and renaming.
type Group struct {
	Operator      rune
	Operation     *Automaton
	Deterministic *Automaton
	Minimized     *Automaton
	Simplified    *Automaton
}

// Stage returns the automaton recorded for the given stage, or nil.
func (g Group) Stage(s Stage) *Automaton {
	switch s {
	case StageOperation:
		return g.Operation
	case StageDeterministic:
		return g.Deterministic
	case StageMinimized:
		return g.Minimized
	case StageSimplified:
		return g.Simplified
	}
	return nil
}

// Result is everything produced by evaluating one expression.
type Result struct {
	ID         string
	Expression string
	Postfix    string
	CreatedAt  time.Time

	// Elementary holds one automaton per operand, in evaluation order.
	Elementary []*Automaton
	// Steps holds one group per operator application, in evaluation order.
	Steps []Group
}

// Final returns the overall automaton: the simplified automaton of the last
// step, or the sole elementary automaton when no operator was applied.
func (r *Result) Final() *Automaton {
	if r == nil {
		return nil
	}
	if n := len(r.Steps); n > 0 {
		return r.Steps[n-1].Simplified
	}
	if len(r.Elementary) > 0 {
		return r.Elementary[0]
	}
	return nil
}

// Clone returns a deep copy of r; no automaton is shared with the original.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Elementary = make([]*Automaton, len(r.Elementary))
	for i, a := range r.Elementary {
		out.Elementary[i] = cloneAutomaton(a)
	}
	out.Steps = make([]Group, len(r.Steps))
	for i, g := range r.Steps {
		out.Steps[i] = Group{
			Operator:      g.Operator,
			Operation:     cloneAutomaton(g.Operation),
			Deterministic: cloneAutomaton(g.Deterministic),
			Minimized:     cloneAutomaton(g.Minimized),
			Simplified:    cloneAutomaton(g.Simplified),
		}
	}
	return &out
}

func cloneAutomaton(a *Automaton) *Automaton {
	if a == nil {
		return nil
	}
	return a.Clone()
}
