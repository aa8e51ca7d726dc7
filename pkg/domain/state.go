package domain

import (
	"slices"
	"strconv"
	"strings"
)

// StatePrefix is prepended to every origin tag in a state's canonical name.
const StatePrefix = "s"

// State is a node of an automaton.
//
// Its identity is the set of origin tags it was built from, not a single id:
// fusing several states into one keeps every tag so the result still shows
// where it came from. State is a value; operators produce new states with
// WithStart/WithFinal instead of flipping flags on shared objects.
type State struct {
	tags  []int
	start bool
	final bool
}

// NewState creates a state carrying a single origin tag.
func NewState(tag int, start, final bool) State {
	return State{tags: []int{tag}, start: start, final: final}
}

// NewStateFromTags creates a state from an arbitrary tag set.
// Duplicates are removed and the tags are kept sorted.
func NewStateFromTags(tags []int, start, final bool) State {
	return State{tags: normalizeTags(tags), start: start, final: final}
}

// Fuse merges states into one. The tag sets are unioned and the start and
// final flags are set if any input carries them. Fusing a single state
// returns it unchanged; fusing nothing returns the zero State.
func Fuse(states ...State) State {
	switch len(states) {
	case 0:
		return State{}
	case 1:
		return states[0]
	}

	var tags []int
	var start, final bool
	for _, s := range states {
		tags = append(tags, s.tags...)
		start = start || s.start
		final = final || s.final
	}
	return NewStateFromTags(tags, start, final)
}

// Tags returns a copy of the origin tags in ascending order.
func (s State) Tags() []int {
	return slices.Clone(s.tags)
}

// Composite reports whether the state was produced by fusing several states.
func (s State) Composite() bool {
	return len(s.tags) > 1
}

// MinTag returns the smallest origin tag, or -1 for the zero State.
func (s State) MinTag() int {
	if len(s.tags) == 0 {
		return -1
	}
	return s.tags[0]
}

// IsZero reports whether s carries no tags.
func (s State) IsZero() bool {
	return len(s.tags) == 0
}

func (s State) IsStart() bool { return s.start }
func (s State) IsFinal() bool { return s.final }

// WithStart returns a copy of s with the start flag set to v.
func (s State) WithStart(v bool) State {
	s.tags = slices.Clone(s.tags)
	s.start = v
	return s
}

// WithFinal returns a copy of s with the final flag set to v.
func (s State) WithFinal(v bool) State {
	s.tags = slices.Clone(s.tags)
	s.final = v
	return s
}

// WithTag returns a copy of s whose tag set is replaced by the single tag.
func (s State) WithTag(tag int) State {
	s.tags = []int{tag}
	return s
}

// Name is the canonical display name: the sorted tags, each prefixed with
// StatePrefix ("s0s3"). Two states are the same state iff their names match.
func (s State) Name() string {
	var sb strings.Builder
	for _, t := range s.tags {
		sb.WriteString(StatePrefix)
		sb.WriteString(strconv.Itoa(t))
	}
	return sb.String()
}

func (s State) String() string {
	return s.Name()
}

// Same reports whether two states share an identity, ignoring flags.
func (s State) Same(other State) bool {
	return slices.Equal(s.tags, other.tags)
}

// compareStates implements the canonical display order: start states first,
// then by smallest tag, then by name, then final before non-final.
func compareStates(a, b State) int {
	if a.start != b.start {
		if a.start {
			return -1
		}
		return 1
	}
	if c := a.MinTag() - b.MinTag(); c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Name(), b.Name()); c != 0 {
		return c
	}
	if a.final != b.final {
		if a.final {
			return -1
		}
		return 1
	}
	return 0
}

// SortStates orders states in place using the canonical display order.
func SortStates(states []State) {
	slices.SortFunc(states, compareStates)
}

func normalizeTags(tags []int) []int {
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}
