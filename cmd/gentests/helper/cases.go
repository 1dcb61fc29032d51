package gentests

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vic/lamnet/pkg/compiler"
	"github.com/vic/lamnet/pkg/inet"
	"github.com/vic/lamnet/pkg/lambda"
)

// Case is one entry of cases.yaml.
type Case struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	// Steps is the exact rewrite count, or nil when not checked.
	Steps *uint64 `yaml:"steps,omitempty"`
	// Error names the failure the case must end in, see Errors.
	Error string `yaml:"error,omitempty"`
}

// Errors maps the error names usable in cases.yaml to their sentinels.
var Errors = map[string]error{
	"not_implemented":  inet.ErrNotImplemented,
	"step_limit":       inet.ErrStepLimit,
	"readback":         lambda.ErrReadback,
	"unbound_variable": compiler.ErrUnboundVariable,
	"syntax":           lambda.ErrSyntax,
}

// LoadCases reads and validates a case catalogue.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}
	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("case %d: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return cases, nil
}

func (c Case) validate() error {
	if c.Name == "" {
		return errors.New("missing name")
	}
	if c.Input == "" {
		return fmt.Errorf("%s: missing input", c.Name)
	}
	if (c.Output == "") == (c.Error == "") {
		return fmt.Errorf("%s: exactly one of output and error is required", c.Name)
	}
	if c.Error != "" {
		if _, ok := Errors[c.Error]; !ok {
			return fmt.Errorf("%s: unknown error %q", c.Name, c.Error)
		}
	}
	return nil
}

// ExpectedSteps returns Steps as the int64 the generated tests take, -1
// meaning unchecked.
func (c Case) ExpectedSteps() int64 {
	if c.Steps == nil {
		return -1
	}
	return int64(*c.Steps)
}
