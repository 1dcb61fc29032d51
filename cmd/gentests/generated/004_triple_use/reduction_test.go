package gentests

import _ "embed"
import "testing"
import "github.com/vic/lamnet/cmd/gentests/helper"

//go:embed input.lam
var input string

//go:embed output.lam
var output string

func Test_004_triple_use_Reduction(t *testing.T) {
	gentests.CheckLambdaReduction(t, "004_triple_use", input, output, 7)
}
