// Command lamnet compiles a lambda term into an interaction net, reduces it
// and prints the normal form.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/vic/lamnet/pkg/compiler"
	"github.com/vic/lamnet/pkg/config"
	"github.com/vic/lamnet/pkg/inet"
	"github.com/vic/lamnet/pkg/lambda"
	"github.com/vic/lamnet/pkg/logging"
)

// version is overridable at link time:
//
//	go build -ldflags "-X main.version=0.2.0"
var version = "0.1.0" //nolint:gochecknoglobals

// errStopped is returned when the user quits an interactive run.
var errStopped = errors.New("stopped by user")

// isTerminal reports whether r is an interactive terminal.
var isTerminal = func(r io.Reader) bool { //nolint:gochecknoglobals
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lamnet: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.Default()
	config.LoadFromEnv(&cfg)
	envVerbose := cfg.Verbose

	fs := flag.NewFlagSet("lamnet", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── input ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.Expr, "expr", "e", "", "Term source (instead of a file or stdin)")

	// ── reduction ────────────────────────────────────────────────
	fs.Uint64VarP(&cfg.MaxSteps, "max-steps", "n", cfg.MaxSteps, "Step limit, 0 = unlimited")
	var noCheck bool
	fs.BoolVar(&noCheck, "no-check", !cfg.Check, "Skip the consistency check after each rewrite")
	fs.BoolVar(&cfg.IgnoreLabels, "ignore-labels", cfg.IgnoreLabels, "Annihilate any two Dups regardless of label")
	fs.IntVar(&cfg.Trace, "trace", cfg.Trace, "Keep the last N rule events and print them")
	fs.BoolVarP(&cfg.Step, "step", "s", false, "Wait for Enter before each rewrite")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(stderr, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		printUsage(stdout, fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "lamnet %s\n", version)
		return nil
	}
	if !fs.Changed("verbose") {
		cfg.Verbose = envVerbose
	}
	cfg.Check = !noCheck

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.File = rest[0]
	default:
		return fmt.Errorf("expected at most one source file, got %d", len(rest))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(stderr, cfg.LogLevel(), cfg.LogFormat)

	src, err := readSource(&cfg, stdin)
	if err != nil {
		return err
	}
	if cfg.Step {
		if cfg.Expr == "" && cfg.File == "" {
			return fmt.Errorf("--step reads commands from stdin, so the term must come from --expr or a file")
		}
		if !isTerminal(stdin) {
			return fmt.Errorf("--step needs an interactive terminal")
		}
	}

	n, err := compiler.CompileSource(src, cfg.NetOptions(logger)...)
	if err != nil {
		return err
	}
	logger.Info("compiled", "net", n.ID(), "agents", n.NodeCount(), "redexes", n.PendingRedexes())

	start := time.Now()
	var steps uint64
	switch {
	case cfg.Step:
		steps, err = stepThrough(ctx, n, cfg.MaxSteps, bufio.NewReader(stdin), stderr)
	case cfg.MaxSteps == 0:
		steps, err = n.ReduceToNormalForm(ctx)
	default:
		steps, err = n.ReduceWithLimit(ctx, cfg.MaxSteps)
	}
	elapsed := time.Since(start)
	logger.Info("reduced", "net", n.ID(), "steps", steps, "elapsed", elapsed)

	if cfg.Trace > 0 {
		printTrace(stderr, n.TraceSnapshot())
	}
	printStats(stderr, n, elapsed)
	if err != nil {
		return fmt.Errorf("reduction stopped after %d steps: %w", steps, err)
	}

	res, err := lambda.FromNet(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res)
	return nil
}

func readSource(cfg *config.Config, stdin io.Reader) (string, error) {
	switch {
	case cfg.Expr != "":
		return cfg.Expr, nil
	case cfg.File != "":
		b, err := os.ReadFile(cfg.File)
		if err != nil {
			return "", fmt.Errorf("failed to read source: %w", err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
}

// stepThrough rewrites one redex per line read from in. An empty line
// continues, "q" or end of input stops.
func stepThrough(ctx context.Context, n *inet.Net, limit uint64, in *bufio.Reader, out io.Writer) (uint64, error) {
	var steps uint64
	for limit == 0 || steps < limit {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		rs := n.Redexes()
		if len(rs) == 0 {
			return steps, nil
		}
		top := rs[len(rs)-1]
		a, err := n.Agent(top.A)
		if err != nil {
			return steps, err
		}
		b, err := n.Agent(top.B)
		if err != nil {
			return steps, err
		}
		fmt.Fprintf(out, "step %d: %s %d >< %s %d, %d pending [enter, q] ", steps, a.Kind, top.A, b.Kind, top.B, len(rs))

		line, err := in.ReadString('\n')
		if errors.Is(err, io.EOF) || strings.TrimSpace(line) == "q" {
			fmt.Fprintln(out)
			return steps, errStopped
		}
		if err != nil {
			return steps, err
		}
		if _, err := n.Reduce(); err != nil {
			return steps, err
		}
		steps++
	}
	if n.PendingRedexes() > 0 {
		return steps, fmt.Errorf("%d rewrites: %w", steps, inet.ErrStepLimit)
	}
	return steps, nil
}

func printTrace(w io.Writer, events []inet.TraceEvent) {
	fmt.Fprintf(w, "\nTrace (last %d):\n", len(events))
	for _, e := range events {
		fmt.Fprintf(w, "  %6d %-12s %s#%d(%d) >< %s#%d(%d)\n",
			e.Step, e.Rule, e.AKind, e.AID, e.ALabel, e.BKind, e.BID, e.BLabel)
	}
}

func printStats(w io.Writer, n *inet.Net, elapsed time.Duration) {
	stats := n.Stats()
	seconds := elapsed.Seconds()
	rate := func(v uint64) string {
		if seconds <= 0 {
			return ""
		}
		return fmt.Sprintf(" (%.2f ops/sec)", float64(v)/seconds)
	}

	fmt.Fprintf(w, "\nStats:\n")
	fmt.Fprintf(w, "Net: %s\n", n.ID())
	fmt.Fprintf(w, "Time: %v\n", elapsed)
	fmt.Fprintf(w, "Total Reductions: %d%s\n", stats.TotalReductions, rate(stats.TotalReductions))
	fmt.Fprintf(w, "\nBreakdown:\n")
	fmt.Fprintf(w, "  Annihilation: %6d%s\n", stats.Annihilation, rate(stats.Annihilation))
	fmt.Fprintf(w, "  Commutation:  %6d%s\n", stats.Commutation, rate(stats.Commutation))
	fmt.Fprintf(w, "  Erasure:      %6d%s\n", stats.Erasure, rate(stats.Erasure))
	fmt.Fprintf(w, "\nAgents: %d live, %d allocated\n", n.NodeCount(), n.Cap())
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: lamnet [flags] [file]\n\n")
	fmt.Fprintf(w, "Reads a lambda term from file, --expr or stdin, reduces it as an\n")
	fmt.Fprintf(w, "interaction net and prints the normal form.\n\n")
	fmt.Fprint(w, fs.FlagUsages())
}
