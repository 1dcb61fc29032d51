package inet

import "fmt"

// Kind identifies the type of agent.
type Kind int

const (
	KindLam Kind = iota
	KindApp
	KindDup
	KindEra
	KindRoot
)

func (k Kind) String() string {
	switch k {
	case KindLam:
		return "Lam"
	case KindApp:
		return "App"
	case KindDup:
		return "Dup"
	case KindEra:
		return "Era"
	case KindRoot:
		return "Root"
	default:
		return "Unknown"
	}
}

// Arity is the number of ports every agent carries. Era and Root only use
// port 0.
const Arity = 3

const (
	Principal = 0
	Aux1      = 1
	Aux2      = 2
)

// AgentID is a handle into the net's arena. IDs of freed agents are reused.
type AgentID int

// NoAgent is the AgentID of an unconnected wire end.
const NoAgent AgentID = -1

// Wire is one end of a connection: the agent and port a port is wired to.
type Wire struct {
	Agent AgentID
	Port  int
}

// NoWire is what Enter returns for a port that has not been linked yet.
var NoWire = Wire{Agent: NoAgent, Port: -1}

// Connected reports whether w refers to an agent.
func (w Wire) Connected() bool { return w.Agent != NoAgent }

func (w Wire) String() string {
	if !w.Connected() {
		return "-"
	}
	return fmt.Sprintf("%d.%d", w.Agent, w.Port)
}

// Agent is a snapshot of a live agent.
type Agent struct {
	Kind  Kind
	Label uint64 // duplication scope, only meaningful for KindDup
	Ports [Arity]Wire
}

func newAgent(kind Kind, label uint64) Agent {
	return Agent{Kind: kind, Label: label, Ports: [Arity]Wire{NoWire, NoWire, NoWire}}
}

// symbol is what the rewrite table compares. Lam and App are the two
// orientations of one constructor, so they share a symbol: Lam meeting App is
// beta reduction.
type symbol struct {
	family Kind
	label  uint64
}

func (a Agent) symbol(m DupMatching) symbol {
	switch a.Kind {
	case KindLam, KindApp:
		return symbol{family: KindLam}
	case KindDup:
		if m == IgnoreLabels {
			return symbol{family: KindDup}
		}
		return symbol{family: KindDup, label: a.Label}
	default:
		return symbol{family: a.Kind}
	}
}

func (a Agent) String() string {
	if a.Kind == KindDup {
		return fmt.Sprintf("Dup#%d[%s %s %s]", a.Label, a.Ports[0], a.Ports[1], a.Ports[2])
	}
	return fmt.Sprintf("%s[%s %s %s]", a.Kind, a.Ports[0], a.Ports[1], a.Ports[2])
}

// Redex is a pair of agents connected principal to principal.
type Redex struct {
	A, B AgentID
}
