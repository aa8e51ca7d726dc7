package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventElementary EventType = "elementary"
	EventStep       EventType = "step"
	EventComplete   EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	Expression string    `json:"expression"`
}

// ElementaryEvent is emitted when an operand is turned into an automaton.
type ElementaryEvent struct {
	EventBase
	Symbol    rune       `json:"symbol"`
	Automaton *Automaton `json:"-"`
}

// StepEvent is emitted after an operator application went through the pipeline.
type StepEvent struct {
	EventBase
	Index    int           `json:"index"`
	Operator rune          `json:"operator"`
	Group    Group         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// CompleteEvent is emitted once per evaluation.
type CompleteEvent struct {
	EventBase
	Steps    int           `json:"steps"`
	States   int           `json:"states"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for evaluator observability.
type LifecycleHooks struct {
	OnElementary func(context.Context, *ElementaryEvent)
	OnStep       func(context.Context, *StepEvent)
	OnComplete   func(context.Context, *CompleteEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnElementary: chain(h.OnElementary, other.OnElementary),
		OnStep:       chain(h.OnStep, other.OnStep),
		OnComplete:   chain(h.OnComplete, other.OnComplete),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
