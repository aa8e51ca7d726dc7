package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/regfsm/internal/logging"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
)

// Evaluator turns a postfix expression into a Result by running a stack
// machine over its tokens. It holds no per-run state and is safe for
// concurrent use.
type Evaluator struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EvaluatorOption {
	return func(e *Evaluator) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps and durations.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator creates an Evaluator. The default logger discards everything.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run is the state of a single evaluation.
type run struct {
	ctx        context.Context
	expression string
	namer      *fsm.Namer
	stack      []*domain.Automaton
	result     *domain.Result
}

func (r *run) push(a *domain.Automaton) {
	r.stack = append(r.stack, a)
}

func (r *run) pop() (*domain.Automaton, error) {
	n := len(r.stack)
	if n == 0 {
		return nil, domain.ErrStackUnderflow
	}
	a := r.stack[n-1]
	r.stack = r.stack[:n-1]
	return a, nil
}

// Evaluate runs tokens left to right. Operands become elementary automata;
// every operator application is determinized, minimized and renamed, and
// the renamed automaton replaces its operands on the stack. Each call owns
// its own Namer, so equal input always yields equal state names.
func (e *Evaluator) Evaluate(ctx context.Context, expression string, tokens expr.Postfix) (*domain.Result, error) {
	started := e.now()
	r := &run{
		ctx:        ctx,
		expression: expression,
		namer:      fsm.NewNamer(),
		result: &domain.Result{
			Expression: expression,
			Postfix:    tokens.String(),
			CreatedAt:  started,
		},
	}

	err := e.evaluate(r, tokens)

	complete := &domain.CompleteEvent{
		EventBase: e.event(domain.EventComplete, expression),
		Steps:     len(r.result.Steps),
		Duration:  e.now().Sub(started),
		Err:       err,
	}
	if final := r.result.Final(); err == nil && final != nil {
		complete.States = final.Len()
	}
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(ctx, complete)
	}

	if err != nil {
		e.logger.Debug("evaluation failed", "expression", expression, "postfix", r.result.Postfix, "error", err)
		return nil, err
	}
	e.logger.Info("expression evaluated",
		"expression", expression,
		"postfix", r.result.Postfix,
		"steps", complete.Steps,
		"states", complete.States,
		"duration", complete.Duration,
	)
	return r.result, nil
}

func (e *Evaluator) evaluate(r *run, tokens expr.Postfix) error {
	if len(tokens) == 0 {
		return domain.ErrEmptyExpression
	}

	for _, tok := range tokens {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		var err error
		if expr.IsOperator(tok) {
			err = e.apply(r, tok)
		} else {
			err = e.operand(r, tok)
		}
		if err != nil {
			return err
		}
	}

	switch len(r.stack) {
	case 0:
		return domain.ErrStackUnderflow
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: %d automata left", domain.ErrDanglingOperand, len(r.stack))
	}
}

func (e *Evaluator) operand(r *run, tok rune) error {
	a, err := fsm.FromSymbol(r.namer, tok)
	if err != nil {
		return err
	}
	r.result.Elementary = append(r.result.Elementary, a)
	r.push(a)

	e.logger.Debug("operand", "symbol", string(tok), "states", a.Len())
	if e.hooks.OnElementary != nil {
		e.hooks.OnElementary(r.ctx, &domain.ElementaryEvent{
			EventBase: e.event(domain.EventElementary, r.expression),
			Symbol:    tok,
			Automaton: a,
		})
	}
	return nil
}

func (e *Evaluator) apply(r *run, op rune) error {
	started := e.now()

	raw, err := e.operate(r, op)
	if err != nil {
		return fmt.Errorf("operator %c: %w", op, err)
	}

	group := domain.Group{Operator: op, Operation: raw}
	group.Deterministic = fsm.Determinize(raw)
	group.Minimized = fsm.Minimize(group.Deterministic)
	group.Simplified = fsm.Simplify(r.namer, group.Minimized)

	r.result.Steps = append(r.result.Steps, group)
	r.push(group.Simplified)

	e.logger.Debug("operator applied",
		"operator", string(op),
		"expression", raw.Expression,
		"raw_states", raw.Len(),
		"dfa_states", group.Deterministic.Len(),
		"min_states", group.Minimized.Len(),
	)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(r.ctx, &domain.StepEvent{
			EventBase: e.event(domain.EventStep, r.expression),
			Index:     len(r.result.Steps) - 1,
			Operator:  op,
			Group:     group,
			Duration:  e.now().Sub(started),
		})
	}
	return nil
}

// operate pops the operands of op and applies it. For binary operators
// the first pop is the right operand.
func (e *Evaluator) operate(r *run, op rune) (*domain.Automaton, error) {
	if expr.IsUnary(op) {
		x, err := r.pop()
		if err != nil {
			return nil, err
		}
		if op == expr.Kleene {
			return fsm.KleeneClosure(r.namer, x), nil
		}
		return fsm.PositiveClosure(x), nil
	}

	if !expr.IsBinary(op) {
		return nil, fmt.Errorf("%w: %q cannot be applied", domain.ErrInvalidOperand, op)
	}
	right, err := r.pop()
	if err != nil {
		return nil, err
	}
	left, err := r.pop()
	if err != nil {
		return nil, err
	}
	if op == expr.Alternation {
		return fsm.Alternate(left, right), nil
	}
	return fsm.Concat(left, right), nil
}

func (e *Evaluator) event(t domain.EventType, expression string) domain.EventBase {
	return domain.EventBase{
		Timestamp:  e.now(),
		Type:       t,
		Expression: expression,
	}
}
