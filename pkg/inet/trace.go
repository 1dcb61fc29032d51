package inet

// RuleKind names the rewrite rule applied to a redex.
type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleErasure
	RuleAnnihilation
	RuleCommutation
)

func (r RuleKind) String() string {
	switch r {
	case RuleErasure:
		return "erasure"
	case RuleAnnihilation:
		return "annihilation"
	case RuleCommutation:
		return "commutation"
	default:
		return "unknown"
	}
}

// TraceEvent records one rewrite. Step is the rewrite's position among all
// rewrites of the net, counting from 1, as in Stats.TotalReductions.
type TraceEvent struct {
	Step   uint64
	Rule   RuleKind
	AKind  Kind
	AID    AgentID
	BKind  Kind
	BID    AgentID
	ALabel uint64
	BLabel uint64
}

// traceRing keeps the most recent events once it is full.
type traceRing struct {
	buf  []TraceEvent
	next uint64
	on   bool
}

// EnableTrace starts recording the last capacity rewrites, dropping anything
// recorded before.
func (n *Net) EnableTrace(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	n.trace = traceRing{buf: make([]TraceEvent, capacity), on: true}
}

// DisableTrace stops recording. Events already recorded are dropped.
func (n *Net) DisableTrace() {
	n.trace = traceRing{}
}

// TraceSnapshot returns the recorded events, oldest first.
func (n *Net) TraceSnapshot() []TraceEvent {
	t := &n.trace
	if !t.on {
		return nil
	}
	size := uint64(len(t.buf))
	if t.next <= size {
		res := make([]TraceEvent, t.next)
		copy(res, t.buf[:t.next])
		return res
	}
	res := make([]TraceEvent, 0, size)
	start := t.next % size
	res = append(res, t.buf[start:]...)
	res = append(res, t.buf[:start]...)
	return res
}

func (n *Net) recordTrace(rule RuleKind, a Agent, x AgentID, b Agent, y AgentID) {
	t := &n.trace
	if !t.on || len(t.buf) == 0 {
		return
	}
	t.buf[t.next%uint64(len(t.buf))] = TraceEvent{
		Step:   n.stats.TotalReductions,
		Rule:   rule,
		AKind:  a.Kind,
		AID:    x,
		BKind:  b.Kind,
		BID:    y,
		ALabel: a.Label,
		BLabel: b.Label,
	}
	t.next++
}
