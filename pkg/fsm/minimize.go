package fsm

import (
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Minimize merges indistinguishable states by partition refinement.
//
// The initial partition separates final from non-final states. A block is
// split while its members disagree on which block each symbol leads to.
// A missing edge on a symbol is distinguished from an edge on it, so two
// states that only differ in where they have no transition are never
// merged: the automaton is not completed with a dead state first.
func Minimize(dfa *domain.Automaton) *domain.Automaton {
	var finals, others []domain.State
	for _, s := range dfa.States() {
		if s.IsFinal() {
			finals = append(finals, s)
		} else {
			others = append(others, s)
		}
	}

	var blocks [][]domain.State
	if len(finals) > 0 {
		blocks = append(blocks, finals)
	}
	if len(others) > 0 {
		blocks = append(blocks, others)
	}

	for {
		var changed bool
		blocks, changed = refine(dfa, blocks)
		if !changed {
			break
		}
	}

	out := domain.NewAutomaton(dfa.Expression)
	out.Explanation = "Reducing the number of states by merging equivalent ones.\n"

	rep := make(map[string]domain.State, dfa.Len())
	for _, block := range blocks {
		r := domain.Fuse(block...)
		for _, s := range block {
			rep[s.Name()] = r
		}
		out.AddState(r)
	}
	for _, t := range dfa.Transitions() {
		out.AddTransition(rep[t.From.Name()], t.Symbols, rep[t.To.Name()])
	}
	return out
}

// refine splits every block by state signature once.
func refine(dfa *domain.Automaton, blocks [][]domain.State) ([][]domain.State, bool) {
	blockOf := make(map[string]int)
	for i, block := range blocks {
		for _, s := range block {
			blockOf[s.Name()] = i
		}
	}

	var next [][]domain.State
	changed := false
	for _, block := range blocks {
		index := make(map[string]int)
		var parts [][]domain.State
		for _, s := range block {
			sig := signature(dfa, s, blockOf)
			i, ok := index[sig]
			if !ok {
				i = len(parts)
				index[sig] = i
				parts = append(parts, nil)
			}
			parts[i] = append(parts[i], s)
		}
		if len(parts) > 1 {
			changed = true
		}
		next = append(next, parts...)
	}
	return next, changed
}

// signature lists, per outgoing symbol, the block its target falls into,
// followed by the final flag.
func signature(dfa *domain.Automaton, s domain.State, blockOf map[string]int) string {
	var parts []string
	for _, t := range dfa.TransitionsFrom(s) {
		for r := range t.Symbols {
			parts = append(parts, string(r)+">"+strconv.Itoa(blockOf[t.To.Name()]))
		}
	}
	slices.Sort(parts)
	if s.IsFinal() {
		parts = append(parts, "final")
	} else {
		parts = append(parts, "nonfinal")
	}
	return strings.Join(parts, ";")
}
