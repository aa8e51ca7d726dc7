package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/regfsm"
	"github.com/aretw0/regfsm/internal/logging"
	"github.com/aretw0/regfsm/internal/presentation/graph"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
)

// CompileResponse summarizes a compiled expression for an agent.
type CompileResponse struct {
	ID          string   `json:"id" jsonschema_description:"Stored result ID"`
	Expression  string   `json:"expression" jsonschema_description:"The expression as given"`
	Postfix     string   `json:"postfix" jsonschema_description:"Postfix form, tokens separated by spaces"`
	Steps       []string `json:"steps" jsonschema_description:"One line per operator application"`
	States      int      `json:"states" jsonschema_description:"States of the minimal DFA"`
	Transitions int      `json:"transitions" jsonschema_description:"Coalesced edges of the minimal DFA"`
	Definition  string   `json:"definition" jsonschema_description:"Formal definition M=(Q,Σ,δ,S,F) of the minimal DFA"`
	Accepted    []bool   `json:"accepted,omitempty" jsonschema_description:"Verdict per test input, in order"`
}

// ValidateResponse lists every syntax violation of an expression.
type ValidateResponse struct {
	Valid  bool     `json:"valid" jsonschema_description:"True when the expression can be compiled"`
	Errors []string `json:"errors" jsonschema_description:"Every violation, in rule order"`
}

// Engine defines what the MCP server needs from the regfsm core.
type Engine interface {
	ValidateAll(expression string) error
	Compile(ctx context.Context, expression string) (*domain.Result, error)
	Evaluate(ctx context.Context, expression string) (*domain.Result, error)
}

var _ Engine = (*regfsm.Engine)(nil)

// Server wraps the regfsm Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("regfsm-mcp", strings.TrimSpace(regfsm.Version)),
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	compileTool := mcp.NewTool("compile_regex",
		mcp.WithDescription("Compile a regular expression into a minimal DFA and store the derivation. "+
			"Operators: | alternation, * Kleene closure, + positive closure, parentheses. Operands: letters, digits, ε, Ø."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The regular expression")),
		mcp.WithArray("inputs", mcp.Description("Strings to test against the DFA (optional)"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	validateTool := mcp.NewTool("validate_regex",
		mcp.WithDescription("Check a regular expression and list every syntax violation."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The regular expression")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("graph_regex",
		mcp.WithDescription("Render the minimal DFA of an expression, or any stage of its derivation, as a diagram."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The regular expression")),
		mcp.WithString("format", mcp.Description("mermaid (default) or dot"), mcp.Enum("mermaid", "dot")),
		mcp.WithString("stage", mcp.Description("result (default), elementary:<i>, step:<i> or step:<i>:<stage>")),
	), s.handleGraph)
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CompileResponse, error) {
	expression, _ := args["expression"].(string)

	res, err := s.engine.Compile(ctx, expression)
	if err != nil {
		s.logger.Warn("MCP compile rejected", "expression", expression, "error", err)
		return CompileResponse{}, fmt.Errorf("compile failed: %w", err)
	}

	final := res.Final()
	resp := CompileResponse{
		ID:          res.ID,
		Expression:  res.Expression,
		Postfix:     res.Postfix,
		Steps:       make([]string, 0, len(res.Steps)),
		States:      final.Len(),
		Transitions: len(final.Transitions()),
		Definition:  final.Format(),
	}
	for i, step := range res.Steps {
		resp.Steps = append(resp.Steps, fmt.Sprintf("%d: %c -> %s (%d states)",
			i, step.Operator, step.Operation.Expression, step.Simplified.Len()))
	}

	if raw, ok := args["inputs"].([]any); ok {
		for _, v := range raw {
			in, _ := v.(string)
			resp.Accepted = append(resp.Accepted, fsm.Accepts(final, in))
		}
	}
	return resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidateResponse, error) {
	expression, _ := args["expression"].(string)

	err := s.engine.ValidateAll(expression)
	resp := ValidateResponse{Valid: err == nil, Errors: []string{}}
	for _, se := range expr.SyntaxErrors(err) {
		resp.Errors = append(resp.Errors, se.Error())
	}
	return resp, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expression, err := request.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := graph.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.engine.Evaluate(ctx, expression)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	a, err := res.Select(request.GetString("stage", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := graph.Render(a, format, nil)
	if err != nil {
		s.logger.Error("MCP graph render failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
