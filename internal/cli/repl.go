package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/regfsm/internal/presentation/graph"
	"github.com/aretw0/regfsm/internal/presentation/report"
	"github.com/aretw0/regfsm/internal/presentation/tui"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
)

// Prompt is printed before every line read.
const Prompt = "regfsm> "

const replHelp = `Type an expression to compile it. Commands:
  :test <input>...          run inputs through the last automaton (ε or "" for the empty string)
  :graph [mermaid|dot] [stage]  draw the last result (stage: result, elementary:<i>, step:<i>[:<stage>])
  :report                   show the full derivation
  :help                     show this help
  :quit                     leave`

// Engine is what the REPL needs from the regfsm core.
type Engine interface {
	ValidateAll(expression string) error
	Compile(ctx context.Context, expression string) (*domain.Result, error)
}

// REPL reads expressions and commands line by line.
type REPL struct {
	Engine   Engine
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer func(string) (string, error)
	Color    bool

	last *domain.Result
}

// REPLOption configures a REPL.
type REPLOption func(*REPL)

// WithRenderer renders Markdown output (reports) before printing it.
func WithRenderer(render func(string) (string, error)) REPLOption {
	return func(r *REPL) {
		r.Renderer = render
	}
}

// WithColor enables coloured verdicts.
func WithColor(enabled bool) REPLOption {
	return func(r *REPL) {
		r.Color = enabled
	}
}

// NewREPL creates a REPL over the given streams.
func NewREPL(engine Engine, in io.Reader, out io.Writer, opts ...REPLOption) *REPL {
	r := &REPL{
		Engine: engine,
		Reader: bufio.NewReader(in),
		Writer: out,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until :quit, end of input or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.Writer, Prompt)

		line, err := r.Reader.ReadString('\n')
		if line != "" {
			if quit := r.Handle(ctx, line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.Writer)
				return nil
			}
			return err
		}
	}
}

// Handle processes one line and reports whether the user asked to leave.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	line, err := SanitizeInput(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(r.Writer, "error: %v\n", err)
		return false
	}
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, ":") {
		r.compile(ctx, line)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":q", ":quit", ":exit":
		return true
	case ":h", ":help":
		fmt.Fprintln(r.Writer, replHelp)
	case ":test", ":t":
		r.test(fields[1:])
	case ":graph", ":g":
		r.graph(fields[1:])
	case ":report", ":r":
		r.report()
	default:
		fmt.Fprintf(r.Writer, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}

func (r *REPL) compile(ctx context.Context, expression string) {
	if err := r.Engine.ValidateAll(expression); err != nil {
		r.printSyntaxErrors(expression, err)
		return
	}
	res, err := r.Engine.Compile(ctx, expression)
	if err != nil {
		fmt.Fprintf(r.Writer, "error: %v\n", err)
		return
	}
	r.last = res

	final := res.Final()
	fmt.Fprintf(r.Writer, "postfix: %s\n", res.Postfix)
	fmt.Fprintf(r.Writer, "%d steps, %d states, %d transitions (id %s)\n",
		len(res.Steps), final.Len(), len(final.Transitions()), res.ID)
	fmt.Fprintln(r.Writer, final.Format())
}

func (r *REPL) printSyntaxErrors(expression string, err error) {
	normalized := expr.Normalize(expression)
	for _, se := range expr.SyntaxErrors(err) {
		if se.Position >= 0 {
			fmt.Fprintf(r.Writer, "  %s\n  %s^ %s\n", normalized, strings.Repeat(" ", se.Position), se.Message)
			continue
		}
		fmt.Fprintf(r.Writer, "  %s\n", se.Message)
	}
}

func (r *REPL) test(inputs []string) {
	if r.last == nil {
		fmt.Fprintln(r.Writer, "nothing compiled yet")
		return
	}
	if len(inputs) == 0 {
		inputs = []string{`""`}
	}
	final := r.last.Final()
	for _, in := range inputs {
		if in == `""` || in == string(domain.Epsilon) {
			in = ""
		}
		fmt.Fprintf(r.Writer, "%-12q %s\n", in, r.verdict(fsm.Accepts(final, in)))
	}
}

func (r *REPL) verdict(accepted bool) string {
	if r.Color {
		return tui.Verdict(accepted)
	}
	if accepted {
		return "accepted"
	}
	return "rejected"
}

func (r *REPL) graph(args []string) {
	if r.last == nil {
		fmt.Fprintln(r.Writer, "nothing compiled yet")
		return
	}
	var format, stage string
	if len(args) > 0 {
		format = args[0]
	}
	if len(args) > 1 {
		stage = args[1]
	}

	f, err := graph.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(r.Writer, "error: %v\n", err)
		return
	}
	a, err := r.last.Select(stage)
	if err != nil {
		fmt.Fprintf(r.Writer, "error: %v\n", err)
		return
	}
	out, err := graph.Render(a, f, nil)
	if err != nil {
		fmt.Fprintf(r.Writer, "error: %v\n", err)
		return
	}
	fmt.Fprint(r.Writer, out)
}

func (r *REPL) report() {
	if r.last == nil {
		fmt.Fprintln(r.Writer, "nothing compiled yet")
		return
	}
	md := report.Markdown(r.last, report.Options{})
	if r.Renderer != nil {
		if rendered, err := r.Renderer(md); err == nil {
			md = rendered
		}
	}
	fmt.Fprintln(r.Writer, strings.TrimSpace(md))
}
