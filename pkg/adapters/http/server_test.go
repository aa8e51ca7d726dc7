package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regfsm"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/observability"
	"github.com/aretw0/regfsm/pkg/schema"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	metrics := observability.NewMetrics()
	n := 0
	eng, err := regfsm.New(
		regfsm.WithLifecycleHooks(metrics.Hooks()),
		regfsm.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, err)
	return NewHandler(eng, WithMetrics(metrics))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOpenAPIDoc(t *testing.T) {
	doc, err := OpenAPIDoc()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", doc.Info.Version)
	for _, path := range []string{"/validate", "/compile", "/match", "/results", "/results/{id}", "/results/{id}/graph"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "0.1.0", info.APIVersion)
	assert.Equal(t, 30, info.MaxLength)
	assert.Equal(t, strings.TrimSpace(regfsm.Version), info.Version)

	w = do(t, h, "GET", "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestValidate(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/validate", ExpressionRequest{Expression: "a(b|c)*"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"errors":[]}`, w.Body.String())

	w = do(t, h, "POST", "/validate", ExpressionRequest{Expression: "a#|"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "invalid_character", resp.Errors[0].Kind)
	assert.Equal(t, "#", resp.Errors[0].Char)
	require.NotNil(t, resp.Errors[0].Position)
	assert.Equal(t, 1, *resp.Errors[0].Position)
	assert.Equal(t, "binary_placement", resp.Errors[1].Kind)

	w = do(t, h, "GET", "/metrics", nil)
	assert.Contains(t, w.Body.String(), `regfsm_validation_failures_total{kind="invalid_character"} 1`)
}

func TestCompile(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/compile", ExpressionRequest{Expression: "ab"})
	require.Equal(t, http.StatusOK, w.Code)

	var res schema.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "id-1", res.ID)
	assert.Equal(t, "a b ,", res.Postfix)
	assert.Len(t, res.Elementary, 2)
	require.Len(t, res.Steps, 1)
	require.NotNil(t, res.Final)
	assert.Len(t, res.Final.States, 3)

	w = do(t, h, "GET", "/metrics", nil)
	assert.Contains(t, w.Body.String(), `regfsm_compilations_total{outcome="success"} 1`)
}

func TestCompile_Errors(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/compile", ExpressionRequest{Expression: "(ab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unclosed_parenthesis", resp.Kind)

	w = do(t, h, "POST", "/compile", ExpressionRequest{Expression: "()"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrEmptyExpression.Error())

	req := httptest.NewRequest("POST", "/compile", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/match", MatchRequest{Expression: "(a|b)*abb", Inputs: []string{"abb", "babb", "ab", ""}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":{"abb":true,"babb":true,"ab":false,"":false}}`, w.Body.String())

	w = do(t, h, "POST", "/match", MatchRequest{Expression: "*a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResults(t *testing.T) {
	h := newTestHandler(t)

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/compile", ExpressionRequest{Expression: "a*"}).Code)

	w := do(t, h, "GET", "/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []schema.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "id-1", summaries[0].ID)
	assert.Equal(t, 1, summaries[0].States)

	w = do(t, h, "GET", "/results/id-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res schema.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "a*", res.Expression)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/results/missing", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/results/id-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", "/results/id-1", nil).Code)
}

func TestGraph(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/compile", ExpressionRequest{Expression: "ab"}).Code)

	w := do(t, h, "GET", "/results/id-1/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "stateDiagram-v2"))

	w = do(t, h, "GET", "/results/id-1/graph?format=dot&stage=elementary:1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "digraph automaton")
	assert.Contains(t, w.Body.String(), `label="b"`)

	w = do(t, h, "GET", "/results/id-1/graph?input=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classDef active")

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/results/id-1/graph?format=png", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/results/id-1/graph?stage=step:9", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/results/nope/graph", nil).Code)
}

type brokenEngine struct{ Engine }

func (brokenEngine) List(context.Context) ([]schema.Summary, error) {
	return nil, fmt.Errorf("backend down")
}

func TestInternalError(t *testing.T) {
	h := NewHandler(brokenEngine{})
	w := do(t, h, "GET", "/results", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "backend down")
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, "OPTIONS", "/compile", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
