package inet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(t *testing.T, n *Net, a AgentID, pa int, b AgentID, pb int) {
	t.Helper()
	require.NoError(t, n.Link(a, pa, b, pb))
}

func enter(t *testing.T, n *Net, id AgentID, p int) Wire {
	t.Helper()
	w, err := n.Enter(id, p)
	require.NoError(t, err)
	return w
}

func TestAddAgentReusesFreedIDs(t *testing.T) {
	n := New()
	a := n.AddAgent(KindLam)
	b := n.AddAgent(KindApp)
	c := n.AddAgent(KindEra)
	assert.Equal(t, []AgentID{0, 1, 2}, []AgentID{a, b, c})

	require.NoError(t, n.FreeAgent(a))
	require.NoError(t, n.FreeAgent(c))
	assert.Equal(t, 1, n.NodeCount())
	assert.Equal(t, 3, n.Cap())

	// most recently freed first
	assert.Equal(t, c, n.AddAgent(KindRoot))
	assert.Equal(t, a, n.AddAgent(KindDup))
	assert.Equal(t, AgentID(3), n.AddAgent(KindEra))
	assert.Equal(t, 4, n.NodeCount())

	k, err := n.Kind(c)
	require.NoError(t, err)
	assert.Equal(t, KindRoot, k)
}

func TestAddAgentMintsDistinctDupLabels(t *testing.T) {
	n := New()
	d1, _ := n.Agent(n.AddAgent(KindDup))
	d2, _ := n.Agent(n.AddAgent(KindDup))
	lam, _ := n.Agent(n.AddAgent(KindLam))
	assert.NotEqual(t, d1.Label, d2.Label)
	assert.Zero(t, lam.Label)

	explicit := n.AddDup(40)
	d3, _ := n.Agent(n.AddAgent(KindDup))
	e, _ := n.Agent(explicit)
	assert.Equal(t, uint64(40), e.Label)
	assert.Greater(t, d3.Label, uint64(40))
}

func TestLabelsAreOwnedByEachNet(t *testing.T) {
	n1, n2 := New(), New()
	a, _ := n1.Agent(n1.AddAgent(KindDup))
	b, _ := n2.Agent(n2.AddAgent(KindDup))
	assert.Equal(t, a.Label, b.Label)
	assert.NotEqual(t, n1.ID(), n2.ID())
}

func TestFreeAgentTwice(t *testing.T) {
	n := New()
	a := n.AddAgent(KindEra)
	require.NoError(t, n.FreeAgent(a))
	assert.ErrorIs(t, n.FreeAgent(a), ErrNodeNotFound)
	assert.ErrorIs(t, n.FreeAgent(99), ErrNodeNotFound)
}

func TestLinkIsSymmetric(t *testing.T) {
	n := New()
	lam := n.AddAgent(KindLam)
	era := n.AddAgent(KindEra)
	link(t, n, lam, Aux2, era, Principal)

	assert.Equal(t, Wire{Agent: era, Port: Principal}, enter(t, n, lam, Aux2))
	assert.Equal(t, Wire{Agent: lam, Port: Aux2}, enter(t, n, era, Principal))
	assert.Equal(t, NoWire, enter(t, n, lam, Principal))
	assert.False(t, enter(t, n, lam, Aux1).Connected())
	assert.Zero(t, n.PendingRedexes())
	require.NoError(t, n.Check())
}

func TestLinkErrors(t *testing.T) {
	n := New()
	a := n.AddAgent(KindLam)
	b := n.AddAgent(KindApp)

	assert.ErrorIs(t, n.Link(a, 3, b, 0), ErrInvalidPort)
	assert.ErrorIs(t, n.Link(a, 0, b, -1), ErrInvalidPort)
	assert.ErrorIs(t, n.Link(a, 0, 7, 0), ErrNodeNotFound)
	assert.ErrorIs(t, n.Link(NoAgent, 0, b, 0), ErrNodeNotFound)

	_, err := n.Enter(a, 3)
	assert.ErrorIs(t, err, ErrInvalidPort)
	_, err = n.Enter(42, 0)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = n.Agent(42)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestLinkPushesRedexOnlyForPrincipalPairs(t *testing.T) {
	n := New()
	lam := n.AddAgent(KindLam)
	app := n.AddAgent(KindApp)
	dup := n.AddAgent(KindDup)
	root := n.AddAgent(KindRoot)

	link(t, n, app, Aux2, dup, Principal)
	assert.Zero(t, n.PendingRedexes())

	link(t, n, root, Principal, dup, Principal)
	assert.Zero(t, n.PendingRedexes(), "Root never forms a redex")

	link(t, n, lam, Principal, app, Principal)
	assert.Equal(t, []Redex{{A: lam, B: app}}, n.Redexes())
}

func TestCheckDetectsDanglingNeighbour(t *testing.T) {
	n := New()
	lam := n.AddAgent(KindLam)
	era := n.AddAgent(KindEra)
	link(t, n, lam, Aux2, era, Principal)
	require.NoError(t, n.Check())

	require.NoError(t, n.FreeAgent(era))
	assert.ErrorIs(t, n.Check(), ErrInvalidNet)
}

func TestCheckDetectsAsymmetricWire(t *testing.T) {
	n := New()
	lam := n.AddAgent(KindLam)
	e1 := n.AddAgent(KindEra)
	e2 := n.AddAgent(KindEra)
	link(t, n, lam, Aux2, e1, Principal)
	// e2 now claims lam.2 while lam.2 still points at e1
	n.slots[e2].agent.Ports[Principal] = Wire{Agent: lam, Port: Aux2}
	n.slots[lam].agent.Ports[Aux2] = Wire{Agent: e2, Port: Principal}
	assert.ErrorIs(t, n.Check(), ErrInvalidNet)
}

func TestCheckDetectsStaleRedex(t *testing.T) {
	n := New()
	a := n.AddAgent(KindEra)
	b := n.AddAgent(KindEra)
	link(t, n, a, Principal, b, Principal)
	require.NoError(t, n.Check())

	c := n.AddAgent(KindEra)
	link(t, n, a, Principal, c, Principal)
	link(t, n, b, Principal, n.AddAgent(KindRoot), Principal)
	// a-b is still queued although a is now wired to c
	assert.ErrorIs(t, n.Check(), ErrInvalidNet)
}

func TestCheckComplete(t *testing.T) {
	n := New()
	root := n.AddAgent(KindRoot)
	lam := n.AddAgent(KindLam)
	link(t, n, root, Principal, lam, Principal)
	link(t, n, lam, Aux1, lam, Aux2)
	require.NoError(t, n.CheckComplete())

	n.AddAgent(KindApp)
	require.NoError(t, n.Check())
	assert.ErrorIs(t, n.CheckComplete(), ErrInvalidNet)
}

func TestSetRoot(t *testing.T) {
	n := New()
	assert.Equal(t, NoAgent, n.Root())
	lam := n.AddAgent(KindLam)
	assert.ErrorIs(t, n.SetRoot(lam), ErrInvalidNet)
	root := n.AddAgent(KindRoot)
	require.NoError(t, n.SetRoot(root))
	assert.Equal(t, root, n.Root())
}

func TestAgentsIteratesLiveAgentsInOrder(t *testing.T) {
	n := New()
	a := n.AddAgent(KindLam)
	b := n.AddAgent(KindApp)
	c := n.AddAgent(KindEra)
	require.NoError(t, n.FreeAgent(b))

	var ids []AgentID
	var kinds []Kind
	for id, ag := range n.Agents() {
		ids = append(ids, id)
		kinds = append(kinds, ag.Kind)
	}
	assert.Equal(t, []AgentID{a, c}, ids)
	assert.Equal(t, []Kind{KindLam, KindEra}, kinds)
	assert.Equal(t, 1, n.CountKind(KindEra))
	assert.Zero(t, n.CountKind(KindApp))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Lam", KindLam.String())
	assert.Equal(t, "Root", KindRoot.String())
	assert.Equal(t, "Unknown", Kind(9).String())
	assert.Equal(t, "3.1", Wire{Agent: 3, Port: 1}.String())
	assert.Equal(t, "-", NoWire.String())
}
