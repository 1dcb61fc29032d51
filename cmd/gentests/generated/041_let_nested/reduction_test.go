package gentests

import _ "embed"
import "testing"
import "github.com/vic/lamnet/cmd/gentests/helper"

//go:embed input.lam
var input string

//go:embed output.lam
var output string

func Test_041_let_nested_Reduction(t *testing.T) {
	gentests.CheckLambdaReduction(t, "041_let_nested", input, output, 7)
}
