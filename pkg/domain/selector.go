package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSelector is returned when a stage selector cannot be parsed or
// points outside the result.
var ErrInvalidSelector = errors.New("invalid selector")

// Select addresses one automaton of r:
//
//	result                   the final automaton (also the empty selector)
//	elementary:<i>           the i-th operand automaton
//	step:<i>                 the simplified automaton of the i-th step
//	step:<i>:<stage>         one stage of the i-th step
//
// Indexes start at 0.
func (r *Result) Select(selector string) (*Automaton, error) {
	parts := strings.Split(strings.TrimSpace(selector), ":")
	switch parts[0] {
	case "", "result", "final":
		if len(parts) != 1 {
			break
		}
		if a := r.Final(); a != nil {
			return a, nil
		}
		return nil, fmt.Errorf("%w: result is empty", ErrInvalidSelector)

	case "elementary":
		if len(parts) != 2 {
			break
		}
		i, err := index(parts[1], len(r.Elementary))
		if err != nil {
			return nil, err
		}
		return r.Elementary[i], nil

	case "step":
		if len(parts) < 2 || len(parts) > 3 {
			break
		}
		i, err := index(parts[1], len(r.Steps))
		if err != nil {
			return nil, err
		}
		stage := StageSimplified
		if len(parts) == 3 {
			stage = Stage(parts[2])
		}
		if a := r.Steps[i].Stage(stage); a != nil {
			return a, nil
		}
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidSelector, stage)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
}

func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not a number", ErrInvalidSelector, s)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidSelector, i, n)
	}
	return i, nil
}
