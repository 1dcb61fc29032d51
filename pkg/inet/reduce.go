package inet

import (
	"context"
	"fmt"
)

// StepResult reports what a Reduce call did.
type StepResult int

const (
	// Reduced means one redex was rewritten.
	Reduced StepResult = iota + 1
	// Normalized means there was nothing left to rewrite.
	Normalized
)

func (r StepResult) String() string {
	switch r {
	case Reduced:
		return "Reduced"
	case Normalized:
		return "Normalized"
	default:
		return "Failed"
	}
}

// Stats holds reduction counters.
type Stats struct {
	TotalReductions uint64
	Annihilation    uint64
	Commutation     uint64
	Erasure         uint64
}

// Stats returns the counters accumulated so far.
func (n *Net) Stats() Stats { return n.stats }

// Reduce pops the most recent redex and rewrites it. With an empty stack it
// returns Normalized and changes nothing.
func (n *Net) Reduce() (StepResult, error) {
	r, ok := n.redexes.Pop()
	if !ok {
		return Normalized, nil
	}
	if err := n.checkRedex(r); err != nil {
		return 0, err
	}
	x, y := r.A, r.B
	a, b := n.slots[x].agent, n.slots[y].agent

	var rule RuleKind
	var err error
	switch {
	case a.Kind == KindEra && b.Kind == KindEra:
		rule = RuleErasure
		err = n.erase(x, y)
	case a.Kind == KindEra || b.Kind == KindEra:
		return 0, fmt.Errorf("%w: %s %d meets %s %d", ErrNotImplemented, a.Kind, x, b.Kind, y)
	case a.symbol(n.dupMatching) == b.symbol(n.dupMatching):
		rule = RuleAnnihilation
		err = n.annihilate(x, y)
	default:
		rule = RuleCommutation
		err = n.commute(x, y)
	}
	if err != nil {
		return 0, err
	}

	n.stats.TotalReductions++
	switch rule {
	case RuleErasure:
		n.stats.Erasure++
	case RuleAnnihilation:
		n.stats.Annihilation++
	case RuleCommutation:
		n.stats.Commutation++
	}
	n.recordTrace(rule, a, x, b, y)
	n.logger.Debug("rewrite", "net", n.id, "rule", rule, "a", x, "a_kind", a.Kind, "b", y, "b_kind", b.Kind, "pending", n.redexes.Len())

	if n.checkSteps {
		if err := n.Check(); err != nil {
			return 0, fmt.Errorf("after %s of %d-%d: %w", rule, x, y, err)
		}
	}
	return Reduced, nil
}

func (n *Net) erase(x, y AgentID) error {
	if err := n.FreeAgent(x); err != nil {
		return err
	}
	return n.FreeAgent(y)
}

// requireAux makes sure both aux ports of the pair are wired before a rule
// starts mutating, so a failing rule leaves the net untouched.
func (n *Net) requireAux(ids ...AgentID) error {
	for _, id := range ids {
		for p := Aux1; p <= Aux2; p++ {
			if !n.slots[id].agent.Ports[p].Connected() {
				return fmt.Errorf("%w: %s %d port %d is dangling", ErrInvalidNet, n.slots[id].agent.Kind, id, p)
			}
		}
	}
	return nil
}

// annihilate joins what hung off port i of x with what hung off port i of y,
// for both aux ports, and frees the pair.
func (n *Net) annihilate(x, y AgentID) error {
	if err := n.requireAux(x, y); err != nil {
		return err
	}
	var done [Arity]bool
	for i := Aux1; i <= Aux2; i++ {
		if done[i] {
			continue
		}
		done[i] = true
		ex, okx := n.far(x, y, i, &done)
		ey, oky := n.far(y, x, i, &done)
		if !okx || !oky {
			// the pair's aux ports only reached each other
			continue
		}
		if err := n.LinkWires(ex, ey); err != nil {
			return err
		}
	}
	if err := n.FreeAgent(x); err != nil {
		return err
	}
	return n.FreeAgent(y)
}

// far follows the wire on port p of self. A wire landing on aux port q of
// self or partner is about to disappear with them, so the walk continues from
// port q of the other agent of the pair.
func (n *Net) far(self, partner AgentID, p int, done *[Arity]bool) (Wire, bool) {
	w := n.slots[self].agent.Ports[p]
	for hops := 0; hops <= 2*(Arity-1); hops++ {
		var next AgentID
		switch w.Agent {
		case self:
			next = partner
		case partner:
			next = self
		default:
			return w, true
		}
		done[w.Port] = true
		w = n.slots[next].agent.Ports[w.Port]
	}
	return NoWire, false
}

// commute replaces x and y with two copies of each other's symbol: copies of
// y take x's aux wires, copies of x take y's, and the copies are cross linked.
func (n *Net) commute(x, y AgentID) error {
	if err := n.requireAux(x, y); err != nil {
		return err
	}
	ax, ay := n.slots[x].agent, n.slots[y].agent

	c1 := n.spawn(ay.Kind, ay.Label)
	c2 := n.spawn(ay.Kind, ay.Label)
	c3 := n.spawn(ax.Kind, ax.Label)
	c4 := n.spawn(ax.Kind, ax.Label)

	replaced := [4]struct {
		old Wire
		by  AgentID
	}{
		{Wire{x, Aux1}, c1},
		{Wire{x, Aux2}, c2},
		{Wire{y, Aux1}, c3},
		{Wire{y, Aux2}, c4},
	}
	replacement := func(w Wire) (AgentID, bool) {
		for _, r := range replaced {
			if r.old == w {
				return r.by, true
			}
		}
		return NoAgent, false
	}

	var linked [4]bool
	for i, r := range replaced {
		if linked[i] {
			continue
		}
		linked[i] = true
		far := n.slots[r.old.Agent].agent.Ports[r.old.Port]
		if by, ok := replacement(far); ok {
			// a wire between two aux ports of the pair becomes a wire
			// between the two copies standing in for them
			for j := range replaced {
				if replaced[j].old == far {
					linked[j] = true
				}
			}
			if err := n.Link(r.by, Principal, by, Principal); err != nil {
				return err
			}
			continue
		}
		if err := n.Link(r.by, Principal, far.Agent, far.Port); err != nil {
			return err
		}
	}

	cross := [4][2]Wire{
		{{c1, Aux1}, {c3, Aux1}},
		{{c1, Aux2}, {c4, Aux1}},
		{{c2, Aux1}, {c3, Aux2}},
		{{c2, Aux2}, {c4, Aux2}},
	}
	for _, c := range cross {
		if err := n.LinkWires(c[0], c[1]); err != nil {
			return err
		}
	}

	if err := n.FreeAgent(x); err != nil {
		return err
	}
	return n.FreeAgent(y)
}

// ReduceWithLimit performs at most limit rewrites. It returns the number of
// rewrites done and ErrStepLimit if redexes are still pending afterwards.
func (n *Net) ReduceWithLimit(ctx context.Context, limit uint64) (uint64, error) {
	var steps uint64
	for steps < limit {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		res, err := n.Reduce()
		if err != nil {
			return steps, err
		}
		if res == Normalized {
			return steps, nil
		}
		steps++
	}
	if n.redexes.Len() > 0 {
		return steps, fmt.Errorf("%d rewrites: %w", steps, ErrStepLimit)
	}
	return steps, nil
}

// ReduceToNormalForm rewrites until no redex is left or ctx is done.
func (n *Net) ReduceToNormalForm(ctx context.Context) (uint64, error) {
	var steps uint64
	for {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		res, err := n.Reduce()
		if err != nil {
			return steps, err
		}
		if res == Normalized {
			return steps, nil
		}
		steps++
	}
}
