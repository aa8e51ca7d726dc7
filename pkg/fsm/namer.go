package fsm

import "github.com/aretw0/regfsm/pkg/domain"

// Namer hands out origin tags for one evaluation run. Tags increase
// monotonically, so a fresh tag never collides with one already in use
// by automata built from the same Namer.
//
// A Namer is not safe for concurrent use; give every evaluation its own.
type Namer struct {
	next int
}

// NewNamer returns a Namer whose first tag is 0.
func NewNamer() *Namer {
	return &Namer{}
}

// Next returns a fresh tag.
func (n *Namer) Next() int {
	t := n.next
	n.next++
	return t
}

// Peek returns the tag the next call to Next will return.
func (n *Namer) Peek() int {
	return n.next
}

// NewState creates a state with a fresh tag.
func (n *Namer) NewState(start, final bool) domain.State {
	return domain.NewState(n.Next(), start, final)
}
