package schema

import (
	"unicode/utf8"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Validate checks that a describes a well-formed automaton: every state
// name matches its tags, names are unique, and every transition connects
// declared states with one-character symbols.
// Returns an *AggregateError with all failures found.
func (a Automaton) Validate() error {
	var errs []error
	add := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	names := make(map[string]bool, len(a.States))
	for i, s := range a.States {
		if len(s.Tags) == 0 {
			add(fieldName("states[%d].tags", i), "required", nil)
			continue
		}
		if want := domain.NewStateFromTags(s.Tags, false, false).Name(); s.Name != want {
			add(fieldName("states[%d].name", i), "does not match tags "+want, s.Name)
		}
		if names[s.Name] {
			add(fieldName("states[%d].name", i), "duplicate state", s.Name)
		}
		names[s.Name] = true
	}

	for i, t := range a.Transitions {
		if !names[t.From] {
			add(fieldName("transitions[%d].from", i), "unknown state", t.From)
		}
		if !names[t.To] {
			add(fieldName("transitions[%d].to", i), "unknown state", t.To)
		}
		if len(t.Symbols) == 0 {
			add(fieldName("transitions[%d].symbols", i), "required", nil)
		}
		for j, sym := range t.Symbols {
			if utf8.RuneCountInString(sym) != 1 {
				add(fieldName("transitions[%d].symbols[%d]", i, j), "must be a single character", sym)
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
