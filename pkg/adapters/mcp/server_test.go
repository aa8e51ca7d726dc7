package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regfsm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := regfsm.New(regfsm.WithIDGenerator(func() string { return "fixed" }))
	require.NoError(t, err)
	return NewServer(eng, nil)
}

func graphRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "graph_regex"
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleCompile(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleCompile(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"expression": "(a|b)*abb",
		"inputs":     []any{"abb", "ab"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", resp.ID)
	assert.Equal(t, 4, resp.States)
	assert.Len(t, resp.Steps, 5)
	assert.Contains(t, resp.Definition, "M=(Q,∑,δ,S,F)")
	assert.Equal(t, []bool{true, false}, resp.Accepted)

	_, err = s.handleCompile(context.Background(), mcp.CallToolRequest{}, map[string]any{"expression": "a|"})
	assert.Error(t, err)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]any{"expression": "ab*"})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)

	resp, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]any{"expression": "(a#"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Len(t, resp.Errors, 2)
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGraph(ctx, graphRequest(map[string]any{"expression": "ab"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "stateDiagram-v2")

	res, err = s.handleGraph(ctx, graphRequest(map[string]any{"expression": "ab", "format": "dot", "stage": "step:0:operation"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "digraph automaton")

	for _, args := range []map[string]any{
		{},
		{"expression": "ab", "format": "svg"},
		{"expression": "a||b"},
		{"expression": "ab", "stage": "step:3"},
	} {
		res, err := s.handleGraph(ctx, graphRequest(args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "%v", args)
	}
}
