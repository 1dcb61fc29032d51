package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(cases, []byte(`
- name: 002_id_id
  input: "(λx.x) (λy.y)"
  output: "z: z"
  steps: 1
- name: 090_erase_lambda
  input: "(a: b: a) (c: c) (d: d)"
  error: not_implemented
`), 0o644))

	out := filepath.Join(dir, "generated")
	n, err := generate(cases, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	input, err := os.ReadFile(filepath.Join(out, "002_id_id", "input.lam"))
	require.NoError(t, err)
	assert.Equal(t, "((x: x) (y: y))\n", string(input))

	output, err := os.ReadFile(filepath.Join(out, "002_id_id", "output.lam"))
	require.NoError(t, err)
	assert.Equal(t, "(z: z)\n", string(output))

	test, err := os.ReadFile(filepath.Join(out, "002_id_id", "reduction_test.go"))
	require.NoError(t, err)
	assert.Contains(t, string(test), `func Test_002_id_id_Reduction(t *testing.T)`)
	assert.Contains(t, string(test), `gentests.CheckLambdaReduction(t, "002_id_id", input, output, 1)`)

	failure, err := os.ReadFile(filepath.Join(out, "090_erase_lambda", "reduction_test.go"))
	require.NoError(t, err)
	assert.Contains(t, string(failure), `gentests.CheckLambdaFailure(t, "090_erase_lambda", input, "not_implemented")`)
	assert.NoFileExists(t, filepath.Join(out, "090_erase_lambda", "output.lam"))
}

func TestGenerateRejectsUnparsableOutput(t *testing.T) {
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(cases, []byte("- name: bad\n  input: \"x: x\"\n  output: \"(y\"\n"), 0o644))

	_, err := generate(cases, filepath.Join(dir, "generated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing output for bad")
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "001_id", identifier("001_id"))
	assert.Equal(t, "pow_2_3", identifier("pow-2.3"))
}
