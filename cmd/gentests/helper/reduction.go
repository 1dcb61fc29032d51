package gentests

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vic/lamnet/pkg/compiler"
	"github.com/vic/lamnet/pkg/lambda"
)

// MaxSteps bounds every generated reduction.
const MaxSteps = 100_000

// CheckLambdaReduction compiles input, reduces it to normal form and compares
// the readback with output modulo bound variable names. steps < 0 skips the
// rewrite count check.
func CheckLambdaReduction(t *testing.T, testName string, inputStr string, outputStr string, steps int64) {
	t.Helper()

	expectedTerm, err := lambda.Parse(strings.TrimSpace(outputStr))
	require.NoError(t, err, "parse error for expected output")

	net, err := compiler.CompileSource(inputStr)
	require.NoError(t, err)

	start := time.Now()
	done, err := net.ReduceWithLimit(context.Background(), MaxSteps)
	elapsed := time.Since(start)
	require.NoError(t, err)

	actualTerm, err := lambda.FromNet(net)
	require.NoError(t, err)

	assert.Equal(t, lambda.Canonical(expectedTerm).String(), lambda.Canonical(actualTerm).String(),
		"mismatch in %s\ninput: %s", testName, inputStr)
	if steps >= 0 {
		assert.Equal(t, uint64(steps), done, "rewrite count of %s", testName)
	}

	stats := net.Stats()
	t.Logf("%s: %d reductions (%d annihilation, %d commutation, %d erasure) in %v",
		testName, stats.TotalReductions, stats.Annihilation, stats.Commutation, stats.Erasure, elapsed)
}

// CheckLambdaFailure compiles and reduces input and expects the named error
// from Errors at some stage, readback included.
func CheckLambdaFailure(t *testing.T, testName string, inputStr string, errName string) {
	t.Helper()

	want, ok := Errors[errName]
	require.True(t, ok, "unknown error name %q", errName)

	err := func() error {
		net, err := compiler.CompileSource(inputStr)
		if err != nil {
			return err
		}
		if _, err := net.ReduceWithLimit(context.Background(), MaxSteps); err != nil {
			return err
		}
		_, err = lambda.FromNet(net)
		return err
	}()
	assert.ErrorIs(t, err, want, "%s", testName)
}

// CheckCase runs c with the matching check.
func CheckCase(t *testing.T, c Case) {
	t.Helper()
	if c.Error != "" {
		CheckLambdaFailure(t, c.Name, c.Input, c.Error)
		return
	}
	CheckLambdaReduction(t, c.Name, c.Input, c.Output, c.ExpectedSteps())
}
