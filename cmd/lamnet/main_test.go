package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vic/lamnet/pkg/compiler"
	"github.com/vic/lamnet/pkg/inet"
)

const pow23 = "(λf.λx.f (f (f x))) (λs.λz.s (s z))"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func fakeTerminal(t *testing.T) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { isTerminal = prev })
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "lamnet "+version+"\n", out)
}

func TestHelp(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage: lamnet")
	assert.Contains(t, out, "--max-steps")
}

func TestReduceExpr(t *testing.T) {
	out, errOut, err := execute(t, "", "-e", "(λx.x) (λy.y)")
	require.NoError(t, err)
	assert.Equal(t, "(x0: x0)\n", out)
	assert.Contains(t, errOut, "Total Reductions: 1")
	assert.Contains(t, errOut, "Annihilation:      1")
	assert.Contains(t, errOut, "Net: ")
}

func TestReduceStdin(t *testing.T) {
	out, _, err := execute(t, "(λn.λf.λx.f (n f x)) (λs.λz.s (s z))\n")
	require.NoError(t, err)
	assert.Equal(t, "(x0: (x1: (x0 (x0 (x0 x1)))))\n", out)
}

func TestReduceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pow.lam")
	require.NoError(t, os.WriteFile(path, []byte("# two cubed\n"+pow23+"\n"), 0o644))

	out, errOut, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "(x0: (x1: (x0 (x0 (x0 (x0 (x0 (x0 (x0 (x0 x1))))))))))\n", out)
	assert.Contains(t, errOut, "Total Reductions: 26")
}

func TestStepLimit(t *testing.T) {
	out, errOut, err := execute(t, "", "-n", "5", "-e", pow23)
	assert.ErrorIs(t, err, inet.ErrStepLimit)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Total Reductions: 5")
}

func TestUnlimitedSteps(t *testing.T) {
	out, _, err := execute(t, "", "--max-steps", "0", "--no-check", "-e", pow23)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown_flag", []string{"--nonexistent-flag"}, "unknown flag"},
		{"two_files", []string{"a.lam", "b.lam"}, "at most one"},
		{"expr_and_file", []string{"-e", "x: x", "a.lam"}, "mutually exclusive"},
		{"bad_log_format", []string{"--log-format", "xml", "-e", "x: x"}, "log format"},
		{"missing_file", []string{filepath.Join(t.TempDir(), "none.lam")}, "failed to read source"},
		{"syntax", []string{"-e", "λx.(x"}, "syntax error"},
		{"eraser_meets_lambda", []string{"-e", "(λa.λb.a) (λc.c) (λd.d)"}, "not implemented"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := execute(t, "", "-e", "λx.y")
	assert.ErrorIs(t, err, compiler.ErrUnboundVariable)
}

func TestTrace(t *testing.T) {
	_, errOut, err := execute(t, "", "--trace", "16", "-e", "(λm.λn.λf.m (n f)) (λs.λz.s (s z)) (λs.λz.s (s z))")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Trace (last 7)")
	// steps are numbered like the reduction count in the stats
	assert.Contains(t, errOut, "\n       1 annihilation")
	assert.Contains(t, errOut, "\n       7 ")
	assert.NotContains(t, errOut, "\n       0 ")
	assert.Contains(t, errOut, "annihilation")
	assert.Contains(t, errOut, "commutation")
}

func TestLogging(t *testing.T) {
	t.Run("verbose_flag", func(t *testing.T) {
		_, errOut, err := execute(t, "", "-v", "-e", "x: x")
		require.NoError(t, err)
		assert.Contains(t, errOut, "msg=compiled")
		assert.NotContains(t, errOut, "msg=rewrite")
	})

	t.Run("debug_logs_rewrites", func(t *testing.T) {
		_, errOut, err := execute(t, "", "-vv", "-e", "(λx.x) (λy.y)")
		require.NoError(t, err)
		assert.Contains(t, errOut, "msg=rewrite")
		assert.Contains(t, errOut, "rule=annihilation")
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("LAMNET_LOG_FORMAT", "json")
		t.Setenv("LAMNET_VERBOSE", "1")
		_, errOut, err := execute(t, "", "-e", "x: x")
		require.NoError(t, err)
		assert.Contains(t, errOut, `"msg":"compiled"`)
	})

	t.Run("quiet_by_default", func(t *testing.T) {
		_, errOut, err := execute(t, "", "-e", "x: x")
		require.NoError(t, err)
		assert.NotContains(t, errOut, "compiled")
	})
}

func TestEnvStepLimit(t *testing.T) {
	t.Setenv("LAMNET_MAX_STEPS", "3")
	_, _, err := execute(t, "", "-e", pow23)
	assert.ErrorIs(t, err, inet.ErrStepLimit)

	// flags win over the environment
	_, _, err = execute(t, "", "-n", "100", "-e", pow23)
	assert.NoError(t, err)
}

func TestStepRequiresTerminal(t *testing.T) {
	_, _, err := execute(t, "", "--step", "-e", "(λx.x) (λy.y)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")

	fakeTerminal(t)
	_, _, err = execute(t, "", "--step")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--expr or a file")
}

func TestStepThrough(t *testing.T) {
	fakeTerminal(t)

	out, errOut, err := execute(t, "\n", "-s", "-e", "(λx.x) (λy.y)")
	require.NoError(t, err)
	assert.Equal(t, "(x0: x0)\n", out)
	assert.Contains(t, errOut, "step 0: App")

	_, _, err = execute(t, "q\n", "-s", "-e", "(λx.x) (λy.y)")
	assert.ErrorIs(t, err, errStopped)

	_, _, err = execute(t, "", "-s", "-e", "(λx.x) (λy.y)")
	assert.ErrorIs(t, err, errStopped)
}

func TestStepThroughReportsStaleRedex(t *testing.T) {
	n := inet.New()
	a := n.AddAgent(inet.KindEra)
	b := n.AddAgent(inet.KindEra)
	require.NoError(t, n.Link(a, inet.Principal, b, inet.Principal))
	require.NoError(t, n.FreeAgent(b))

	var out bytes.Buffer
	steps, err := stepThrough(context.Background(), n, 0, bufio.NewReader(strings.NewReader("\n")), &out)
	assert.ErrorIs(t, err, inet.ErrNodeNotFound)
	assert.Zero(t, steps)
	assert.Empty(t, out.String())
}
