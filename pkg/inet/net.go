// Package inet implements interaction nets over the Lam, App, Dup, Era and
// Root agents: an arena of agents whose ports record wires at both ends, a
// stack of pending redexes, and the rewrite rules that consume them.
//
// A Net is not safe for concurrent use. Every Reduce call is one complete
// rewrite; the host decides when to call it.
package inet

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/vic/lamnet/pkg/logging"
)

type slot struct {
	live  bool
	agent Agent
}

// Net owns all agents and wires of one term being reduced.
type Net struct {
	id        uuid.UUID
	slots     []slot
	free      []AgentID
	live      int
	redexes   redexStack
	root      AgentID
	nextLabel uint64

	checkSteps  bool
	dupMatching DupMatching
	logger      logging.Logger

	stats Stats
	trace traceRing
}

// New creates an empty net.
func New(opts ...Option) *Net {
	n := &Net{
		id:         uuid.New(),
		root:       NoAgent,
		checkSteps: true,
		logger:     logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID identifies this net instance in logs.
func (n *Net) ID() uuid.UUID { return n.id }

// Logger returns the logger given with WithLogger, or a no-op logger.
func (n *Net) Logger() logging.Logger { return n.logger }

// DupMatching returns the Dup comparison mode the net was built with.
func (n *Net) DupMatching() DupMatching { return n.dupMatching }

// AddAgent allocates an agent with all ports unconnected. A Dup receives a
// label no other Dup of this net has been given.
func (n *Net) AddAgent(kind Kind) AgentID {
	var label uint64
	if kind == KindDup {
		n.nextLabel++
		label = n.nextLabel
	}
	return n.spawn(kind, label)
}

// AddDup allocates a Dup with an explicit label. Labels minted later by
// AddAgent stay above it.
func (n *Net) AddDup(label uint64) AgentID {
	if label > n.nextLabel {
		n.nextLabel = label
	}
	return n.spawn(KindDup, label)
}

func (n *Net) spawn(kind Kind, label uint64) AgentID {
	var id AgentID
	if k := len(n.free); k > 0 {
		id = n.free[k-1]
		n.free = n.free[:k-1]
	} else {
		id = AgentID(len(n.slots))
		n.slots = append(n.slots, slot{})
	}
	n.slots[id] = slot{live: true, agent: newAgent(kind, label)}
	n.live++
	return id
}

// FreeAgent releases id for reuse. Neighbours still wired to id are not
// touched; redirecting them first is the caller's job, and Check reports it
// when that was not done.
func (n *Net) FreeAgent(id AgentID) error {
	if !n.isLive(id) {
		return fmt.Errorf("free %d: %w", id, ErrNodeNotFound)
	}
	n.slots[id] = slot{}
	n.free = append(n.free, id)
	n.live--
	return nil
}

func (n *Net) isLive(id AgentID) bool {
	return id >= 0 && int(id) < len(n.slots) && n.slots[id].live
}

func validPort(p int) bool { return p >= 0 && p < Arity }

// Link wires port pa of a to port pb of b, overwriting whatever both ports
// held. Linking two principal ports of non-Root agents pushes a redex.
func (n *Net) Link(a AgentID, pa int, b AgentID, pb int) error {
	if !n.isLive(a) {
		return fmt.Errorf("link %d.%d: %w", a, pa, ErrNodeNotFound)
	}
	if !n.isLive(b) {
		return fmt.Errorf("link %d.%d: %w", b, pb, ErrNodeNotFound)
	}
	if !validPort(pa) || !validPort(pb) {
		return fmt.Errorf("link %d.%d-%d.%d: %w", a, pa, b, pb, ErrInvalidPort)
	}
	n.slots[a].agent.Ports[pa] = Wire{Agent: b, Port: pb}
	n.slots[b].agent.Ports[pb] = Wire{Agent: a, Port: pa}
	if pa == Principal && pb == Principal &&
		n.slots[a].agent.Kind != KindRoot && n.slots[b].agent.Kind != KindRoot {
		n.redexes.Push(Redex{A: a, B: b})
	}
	return nil
}

// LinkWires links the two given port references.
func (n *Net) LinkWires(x, y Wire) error {
	return n.Link(x.Agent, x.Port, y.Agent, y.Port)
}

// Enter returns what port p of id is wired to, or NoWire if it is not wired.
func (n *Net) Enter(id AgentID, p int) (Wire, error) {
	if !validPort(p) {
		return NoWire, fmt.Errorf("enter %d.%d: %w", id, p, ErrInvalidPort)
	}
	if !n.isLive(id) {
		return NoWire, fmt.Errorf("enter %d.%d: %w", id, p, ErrNodeNotFound)
	}
	return n.slots[id].agent.Ports[p], nil
}

// EnterWire follows w to the port it is wired to.
func (n *Net) EnterWire(w Wire) (Wire, error) {
	return n.Enter(w.Agent, w.Port)
}

// Agent returns a snapshot of a live agent.
func (n *Net) Agent(id AgentID) (Agent, error) {
	if !n.isLive(id) {
		return Agent{}, fmt.Errorf("agent %d: %w", id, ErrNodeNotFound)
	}
	return n.slots[id].agent, nil
}

// Kind returns the kind of a live agent.
func (n *Net) Kind(id AgentID) (Kind, error) {
	a, err := n.Agent(id)
	return a.Kind, err
}

// Agents iterates over live agents in ID order.
func (n *Net) Agents() iter.Seq2[AgentID, Agent] {
	return func(yield func(AgentID, Agent) bool) {
		for i := range n.slots {
			if !n.slots[i].live {
				continue
			}
			if !yield(AgentID(i), n.slots[i].agent) {
				return
			}
		}
	}
}

// NodeCount returns the number of live agents.
func (n *Net) NodeCount() int { return n.live }

// Cap returns the arena size, live and free slots included.
func (n *Net) Cap() int { return len(n.slots) }

// CountKind returns the number of live agents of the given kind.
func (n *Net) CountKind(kind Kind) int {
	c := 0
	for _, a := range n.Agents() {
		if a.Kind == kind {
			c++
		}
	}
	return c
}

// Redexes returns the pending redexes, oldest first.
func (n *Net) Redexes() []Redex { return n.redexes.Snapshot() }

// PendingRedexes returns the number of pending redexes.
func (n *Net) PendingRedexes() int { return n.redexes.Len() }

// Root returns the Root agent set with SetRoot, or NoAgent.
func (n *Net) Root() AgentID { return n.root }

// SetRoot marks id as the net's observable output.
func (n *Net) SetRoot(id AgentID) error {
	a, err := n.Agent(id)
	if err != nil {
		return err
	}
	if a.Kind != KindRoot {
		return fmt.Errorf("set root %d: agent is %s: %w", id, a.Kind, ErrInvalidNet)
	}
	n.root = id
	return nil
}
