package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regfsm/pkg/schema"
)

// resetFlags restores every flag to its default, since cobra commands are
// package globals shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	base := []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}
	rootCmd.SetArgs(append(base, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "regfsm version 0.1.0\n", out)
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "", "validate", "a(b|c)*")
	require.NoError(t, err)
	assert.Contains(t, out, "Expression is valid!")

	out, err = run(t, "", "validate", "*a#")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 error(s)")
	assert.Contains(t, out, "unary_placement at 0")
	assert.Contains(t, out, "invalid_character at 2")
}

func TestCompileCmd_Text(t *testing.T) {
	out, err := run(t, "", "compile", "ab", "--test", "ab", "-t", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "postfix:    a b ,")
	assert.Contains(t, out, "step 0: , -> ab")
	assert.Contains(t, out, "M=(Q,∑,δ,S,F)")
	assert.Regexp(t, `"ab"\s+accepted`, out)
	assert.Regexp(t, `"a"\s+rejected`, out)
}

func TestCompileCmd_JSON(t *testing.T) {
	out, err := run(t, "", "compile", "a|b", "--format", "json")
	require.NoError(t, err)

	var res schema.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "a|b", res.Expression)
	assert.NotEmpty(t, res.ID)
	require.NotNil(t, res.Final)
	assert.Len(t, res.Final.States, 2)
}

func TestCompileCmd_Markdown(t *testing.T) {
	out, err := run(t, "", "compile", "a*", "-f", "markdown", "-t", "", "-t", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "# `a*`")
	assert.Contains(t, out, "| `ε` | yes |")
	assert.Contains(t, out, "| `b` | no |")
}

func TestCompileCmd_Errors(t *testing.T) {
	_, err := run(t, "", "compile", "a||b")
	assert.Error(t, err)

	_, err = run(t, "", "compile", "ab", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "compile")
	assert.Error(t, err)
}

func TestGraphCmd(t *testing.T) {
	out, err := run(t, "", "graph", "ab")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2"))

	out, err = run(t, "", "graph", "ab", "--format", "dot", "--stage", "step:0:operation")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph automaton")

	out, err = run(t, "", "graph", "ab", "--input", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "classDef active")

	_, err = run(t, "", "graph", "ab", "--stage", "step:4")
	assert.Error(t, err)
}

func TestReplCmd(t *testing.T) {
	out, err := run(t, "ab\n:test ab\n:quit\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "regfsm> ")
	assert.Regexp(t, `"ab"\s+accepted`, out)
}

func TestMcpCmd_UnknownTransport(t *testing.T) {
	_, err := run(t, "", "mcp", "--transport", "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestInvalidLogLevel(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"--log-level", "loud", "version"})
	assert.Error(t, rootCmd.Execute())
}
