package regfsm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/regfsm/internal/logging"
	"github.com/aretw0/regfsm/internal/runtime"
	"github.com/aretw0/regfsm/pkg/adapters/memory"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
	"github.com/aretw0/regfsm/pkg/ports"
	"github.com/aretw0/regfsm/pkg/schema"
)

// Engine is the high-level entry point for the regfsm library.
// It validates, parses and evaluates expressions and keeps compiled
// results in a ResultStore. Safe for concurrent use.
type Engine struct {
	validator *expr.Validator
	evaluator *runtime.Evaluator
	store     ports.ResultStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxLength int
	newID     func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets where compiled results are kept (default: in memory).
func WithStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMaxLength overrides the longest expression accepted.
func WithMaxLength(n int) Option {
	return func(e *Engine) {
		e.maxLength = n
	}
}

// WithIDGenerator replaces the UUID generator used for result IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		maxLength: expr.DefaultMaxLength,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.maxLength <= 0 {
		return nil, fmt.Errorf("max length must be positive, got %d", eng.maxLength)
	}
	if eng.newID == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.validator = &expr.Validator{MaxLength: eng.maxLength}
	eng.evaluator = runtime.NewEvaluator(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng, nil
}

// Validate returns the first syntax violation in expression, or nil.
func (e *Engine) Validate(expression string) error {
	return e.validator.Validate(expression)
}

// ValidateAll returns every syntax violation in expression as an
// *expr.AggregateError, or nil.
func (e *Engine) ValidateAll(expression string) error {
	return e.validator.ValidateAll(expression)
}

// Parse validates expression and converts it to postfix.
func (e *Engine) Parse(expression string) (expr.Postfix, error) {
	if err := e.Validate(expression); err != nil {
		return nil, err
	}
	tokens := expr.Parse(expression)
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyExpression
	}
	return tokens, nil
}

// Evaluate validates and evaluates expression without storing the result.
func (e *Engine) Evaluate(ctx context.Context, expression string) (*domain.Result, error) {
	tokens, err := e.Parse(expression)
	if err != nil {
		return nil, err
	}
	return e.evaluator.Evaluate(ctx, expression, tokens)
}

// Compile evaluates expression, assigns the result an ID and stores it.
func (e *Engine) Compile(ctx context.Context, expression string) (*domain.Result, error) {
	res, err := e.Evaluate(ctx, expression)
	if err != nil {
		return nil, err
	}
	res.ID = e.newID()
	if err := e.store.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}
	e.logger.Debug("result stored", "id", res.ID, "expression", expression)
	return res, nil
}

// Get loads a stored result.
func (e *Engine) Get(ctx context.Context, id string) (*domain.Result, error) {
	return e.store.Load(ctx, id)
}

// List summarizes every stored result, newest first. Results that vanish
// between listing and loading are skipped.
func (e *Engine) List(ctx context.Context) ([]schema.Summary, error) {
	ids, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]schema.Summary, 0, len(ids))
	for _, id := range ids {
		res, err := e.store.Load(ctx, id)
		if errors.Is(err, domain.ErrResultNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load result %s: %w", id, err)
		}
		out = append(out, schema.Summarize(res))
	}
	return out, nil
}

// Delete removes a stored result.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

// Match evaluates expression and reports, per input, whether the resulting
// automaton accepts it. Nothing is stored.
func (e *Engine) Match(ctx context.Context, expression string, inputs []string) ([]bool, error) {
	res, err := e.Evaluate(ctx, expression)
	if err != nil {
		return nil, err
	}
	final := res.Final()
	out := make([]bool, len(inputs))
	for i, in := range inputs {
		out[i] = fsm.Accepts(final, in)
	}
	return out, nil
}

// MaxLength returns the longest expression accepted.
func (e *Engine) MaxLength() int {
	return e.maxLength
}

// Store returns the configured result store.
func (e *Engine) Store() ports.ResultStore {
	return e.store
}

// Close releases the store when it holds resources.
func (e *Engine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
