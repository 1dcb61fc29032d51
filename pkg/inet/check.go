package inet

import "fmt"

// Check verifies the wire table: every connected port points at a live agent
// whose matching port points back, and every pending redex joins the
// principal ports of two live non-Root agents.
func (n *Net) Check() error {
	for id, a := range n.Agents() {
		for p, w := range a.Ports {
			if !w.Connected() {
				continue
			}
			if !n.isLive(w.Agent) {
				return fmt.Errorf("%w: %d.%d wired to dead agent %d", ErrInvalidNet, id, p, w.Agent)
			}
			if !validPort(w.Port) {
				return fmt.Errorf("%w: %d.%d wired to port %d", ErrInvalidNet, id, p, w.Port)
			}
			back := n.slots[w.Agent].agent.Ports[w.Port]
			if back != (Wire{Agent: id, Port: p}) {
				return fmt.Errorf("%w: %d.%d -> %s but %s -> %s", ErrInvalidNet, id, p, w, w, back)
			}
		}
	}
	for _, r := range n.redexes.items {
		if err := n.checkRedex(r); err != nil {
			return err
		}
	}
	return nil
}

func (n *Net) checkRedex(r Redex) error {
	if !n.isLive(r.A) || !n.isLive(r.B) {
		return fmt.Errorf("%w: redex %d-%d names a dead agent", ErrInvalidNet, r.A, r.B)
	}
	a, b := n.slots[r.A].agent, n.slots[r.B].agent
	if a.Kind == KindRoot || b.Kind == KindRoot {
		return fmt.Errorf("%w: redex %d-%d involves Root", ErrInvalidNet, r.A, r.B)
	}
	if a.Ports[Principal] != (Wire{Agent: r.B, Port: Principal}) {
		return fmt.Errorf("%w: redex %d-%d is not a principal pair", ErrInvalidNet, r.A, r.B)
	}
	return nil
}

// CheckComplete runs Check and additionally requires every port an agent uses
// to be wired: all three ports of Lam, App and Dup, port 0 of Era and Root.
func (n *Net) CheckComplete() error {
	if err := n.Check(); err != nil {
		return err
	}
	for id, a := range n.Agents() {
		for p := range usedPorts(a.Kind) {
			if !a.Ports[p].Connected() {
				return fmt.Errorf("%w: %s %d port %d is dangling", ErrInvalidNet, a.Kind, id, p)
			}
		}
	}
	return nil
}

func usedPorts(k Kind) int {
	if k == KindEra || k == KindRoot {
		return 1
	}
	return Arity
}
