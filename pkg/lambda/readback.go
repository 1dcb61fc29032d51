package lambda

import (
	"errors"
	"fmt"

	"github.com/vic/lamnet/pkg/inet"
)

// ErrReadback is returned when a net cannot be read back as a term.
var ErrReadback = errors.New("readback failed")

// DefaultReadbackLimit bounds the ports FromNet visits, which keeps cyclic
// nets such as the leftovers of a non-terminating term from looping forever.
const DefaultReadbackLimit = 1 << 16

// FromNet reads back the term wired to the net's Root. Bound variables are
// named x0, x1, ... in the order their abstractions are met.
func FromNet(n *inet.Net) (Term, error) {
	root := n.Root()
	if root == inet.NoAgent {
		return nil, fmt.Errorf("%w: net has no root", ErrReadback)
	}
	w, err := n.Enter(root, inet.Principal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadback, err)
	}
	return FromWire(n, w, DefaultReadbackLimit)
}

// FromWire reads back the term found by entering the net at w, visiting at
// most limit ports.
func FromWire(n *inet.Net, w inet.Wire, limit int) (Term, error) {
	r := &reader{
		net:    n,
		limit:  limit,
		names:  make(map[inet.AgentID]string),
		stacks: make(map[uint64][]int),
	}
	return r.read(w)
}

type reader struct {
	net   *inet.Net
	limit int
	steps int
	next  int
	names map[inet.AgentID]string
	// aux ports a path went in through, per Dup label, so leaving a Dup by
	// its principal port finds the way back out
	stacks map[uint64][]int
}

func (r *reader) stackKey(a inet.Agent) uint64 {
	if r.net.DupMatching() == inet.IgnoreLabels {
		return 0
	}
	return a.Label
}

func (r *reader) read(w inet.Wire) (Term, error) {
	if !w.Connected() {
		return nil, fmt.Errorf("%w: dangling wire", ErrReadback)
	}
	r.steps++
	if r.steps > r.limit {
		return nil, fmt.Errorf("%w: gave up after %d ports, the net may be cyclic", ErrReadback, r.limit)
	}
	a, err := r.net.Agent(w.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadback, err)
	}

	switch a.Kind {
	case inet.KindLam:
		switch w.Port {
		case inet.Principal:
			name := fmt.Sprintf("x%d", r.next)
			r.next++
			prev, shadowed := r.names[w.Agent]
			r.names[w.Agent] = name
			body, err := r.read(a.Ports[inet.Aux1])
			// the variable is only in scope inside the body
			if shadowed {
				r.names[w.Agent] = prev
			} else {
				delete(r.names, w.Agent)
			}
			if err != nil {
				return nil, err
			}
			return Abs{Arg: name, Body: body}, nil
		case inet.Aux2:
			name, ok := r.names[w.Agent]
			if !ok {
				return nil, fmt.Errorf("%w: variable of Lam %d used outside its body", ErrReadback, w.Agent)
			}
			return Var{Name: name}, nil
		}
	case inet.KindApp:
		if w.Port == inet.Aux1 {
			fun, err := r.read(a.Ports[inet.Principal])
			if err != nil {
				return nil, err
			}
			arg, err := r.read(a.Ports[inet.Aux2])
			if err != nil {
				return nil, err
			}
			return App{Fun: fun, Arg: arg}, nil
		}
	case inet.KindDup:
		key := r.stackKey(a)
		if w.Port == inet.Principal {
			st := r.stacks[key]
			if len(st) == 0 {
				return nil, fmt.Errorf("%w: Dup %d entered at its principal port with no open branch", ErrReadback, w.Agent)
			}
			p := st[len(st)-1]
			r.stacks[key] = st[:len(st)-1]
			t, err := r.read(a.Ports[p])
			r.stacks[key] = append(r.stacks[key], p)
			return t, err
		}
		r.stacks[key] = append(r.stacks[key], w.Port)
		t, err := r.read(a.Ports[inet.Principal])
		st := r.stacks[key]
		r.stacks[key] = st[:len(st)-1]
		return t, err
	}
	return nil, fmt.Errorf("%w: %s %d entered at port %d", ErrReadback, a.Kind, w.Agent, w.Port)
}
