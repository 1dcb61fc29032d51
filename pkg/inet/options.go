package inet

import "github.com/vic/lamnet/pkg/logging"

// DupMatching selects how two Dups meeting principal to principal are
// compared.
type DupMatching int

const (
	// MatchLabels annihilates Dups of the same label and commutes the rest.
	MatchLabels DupMatching = iota
	// IgnoreLabels annihilates any two Dups.
	IgnoreLabels
)

func (m DupMatching) String() string {
	if m == IgnoreLabels {
		return "ignore-labels"
	}
	return "match-labels"
}

// Option configures a Net.
type Option func(*Net)

// WithLogger sets the logger used for rewrite events.
func WithLogger(l logging.Logger) Option {
	return func(n *Net) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithCheck toggles running Check after every rewrite. On by default.
func WithCheck(on bool) Option {
	return func(n *Net) { n.checkSteps = on }
}

// WithDupMatching sets the Dup comparison mode.
func WithDupMatching(m DupMatching) Option {
	return func(n *Net) { n.dupMatching = m }
}

// WithTrace keeps the last capacity rewrite events.
func WithTrace(capacity int) Option {
	return func(n *Net) {
		if capacity > 0 {
			n.EnableTrace(capacity)
		}
	}
}
