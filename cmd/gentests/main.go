// Command gentests turns cases.yaml into one test package per case under
// cmd/gentests/generated, each embedding its input and expected output.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	gentests "github.com/vic/lamnet/cmd/gentests/helper"
	"github.com/vic/lamnet/pkg/lambda"
)

const reductionTemplate = `package gentests

import _ "embed"
import "testing"
import "github.com/vic/lamnet/cmd/gentests/helper"

//go:embed input.lam
var input string

//go:embed output.lam
var output string

func Test_%s_Reduction(t *testing.T) {
	gentests.CheckLambdaReduction(t, %q, input, output, %d)
}
`

const failureTemplate = `package gentests

import _ "embed"
import "testing"
import "github.com/vic/lamnet/cmd/gentests/helper"

//go:embed input.lam
var input string

func Test_%s_Failure(t *testing.T) {
	gentests.CheckLambdaFailure(t, %q, input, %q)
}
`

func main() {
	casesPath := flag.String("cases", "cmd/gentests/cases.yaml", "Case catalogue")
	baseDir := flag.String("out", "cmd/gentests/generated", "Output directory")
	flag.Parse()

	n, err := generate(*casesPath, *baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gentests: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d tests\n", n)
}

func generate(casesPath, baseDir string) (int, error) {
	cases, err := gentests.LoadCases(casesPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return 0, err
	}

	for _, tc := range cases {
		dir := filepath.Join(baseDir, tc.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
		files, err := render(tc)
		if err != nil {
			return 0, err
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				return 0, err
			}
		}
	}
	return len(cases), nil
}

// render returns the files of one case directory. Inputs that parse are
// written back in normalized form.
func render(tc gentests.Case) (map[string]string, error) {
	input := tc.Input
	if term, err := lambda.Parse(tc.Input); err == nil {
		input = term.String()
	} else if tc.Error != "syntax" {
		return nil, fmt.Errorf("parsing input for %s: %w", tc.Name, err)
	}

	ident := identifier(tc.Name)
	if tc.Error != "" {
		return map[string]string{
			"input.lam":         input + "\n",
			"reduction_test.go": fmt.Sprintf(failureTemplate, ident, tc.Name, tc.Error),
		}, nil
	}

	outTerm, err := lambda.Parse(tc.Output)
	if err != nil {
		return nil, fmt.Errorf("parsing output for %s: %w", tc.Name, err)
	}
	return map[string]string{
		"input.lam":         input + "\n",
		"output.lam":        outTerm.String() + "\n",
		"reduction_test.go": fmt.Sprintf(reductionTemplate, ident, tc.Name, tc.ExpectedSteps()),
	}, nil
}

func identifier(name string) string {
	out := []byte(name)
	for i, c := range out {
		ok := c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !ok {
			out[i] = '_'
		}
	}
	return string(out)
}
