// Package compiler translates lambda terms into interaction nets built from
// Lam, App, Dup, Era and Root agents.
package compiler

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/vic/lamnet/pkg/inet"
	"github.com/vic/lamnet/pkg/lambda"
)

// ErrUnboundVariable is returned for a variable with no enclosing binder.
var ErrUnboundVariable = errors.New("unbound variable")

// Compile builds a net for term. The net's Root agent is linked to the
// term's output and registered with SetRoot. A failed compilation returns a
// nil net.
func Compile(term lambda.Term, opts ...inet.Option) (*inet.Net, error) {
	n := inet.New(opts...)
	c := &compiler{net: n}

	root := n.AddAgent(inet.KindRoot)
	out, err := c.build(term, env{})
	if err != nil {
		return nil, err
	}
	if err := c.attach(inet.Wire{Agent: root, Port: inet.Principal}, out); err != nil {
		return nil, err
	}
	if err := n.SetRoot(root); err != nil {
		return nil, err
	}
	n.Logger().Debug("compiled", "net", n.ID(), "agents", n.NodeCount(), "redexes", n.PendingRedexes())
	return n, nil
}

// CompileSource parses src and compiles it.
func CompileSource(src string, opts ...inet.Option) (*inet.Net, error) {
	term, err := lambda.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return Compile(term, opts...)
}

// CompileFile reads, parses and compiles the source file at path.
func CompileFile(path string, opts ...inet.Option) (*inet.Net, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return CompileSource(string(source), opts...)
}

// env maps a variable name to the port its occurrences hang off: port 2 of
// the Lam that binds it.
type env map[string]inet.Wire

type compiler struct {
	net *inet.Net
}

func (c *compiler) alloc(kind inet.Kind) inet.AgentID {
	id := c.net.AddAgent(kind)
	c.net.Logger().Debug("alloc", "net", c.net.ID(), "agent", id, "kind", kind)
	return id
}

// build compiles t and returns the port carrying its value.
func (c *compiler) build(t lambda.Term, vars env) (inet.Wire, error) {
	switch v := t.(type) {
	case lambda.Var:
		return c.variable(v.Name, vars)
	case lambda.Abs:
		return c.abstraction(v.Arg, v.Body, vars)
	case lambda.App:
		return c.application(v.Fun, v.Arg, vars)
	case lambda.Let:
		return c.application(lambda.Abs{Arg: v.Name, Body: v.Body}, v.Val, vars)
	default:
		return inet.NoWire, fmt.Errorf("unsupported term %T", t)
	}
}

// abstraction compiles λx.body. The bound port starts out on an Era, which
// stays there if x never occurs.
func (c *compiler) abstraction(x string, body lambda.Term, vars env) (inet.Wire, error) {
	lam := c.alloc(inet.KindLam)
	era := c.alloc(inet.KindEra)
	if err := c.net.Link(lam, inet.Aux2, era, inet.Principal); err != nil {
		return inet.NoWire, err
	}

	inner := maps.Clone(vars)
	inner[x] = inet.Wire{Agent: lam, Port: inet.Aux2}
	out, err := c.build(body, inner)
	if err != nil {
		return inet.NoWire, err
	}
	if err := c.attach(inet.Wire{Agent: lam, Port: inet.Aux1}, out); err != nil {
		return inet.NoWire, err
	}
	return inet.Wire{Agent: lam, Port: inet.Principal}, nil
}

// variable hands out the binder's Era on first use. Every further use puts a
// Dup in front of whatever the binder port already feeds.
func (c *compiler) variable(x string, vars env) (inet.Wire, error) {
	bound, ok := vars[x]
	if !ok {
		return inet.NoWire, fmt.Errorf("%w: %s", ErrUnboundVariable, x)
	}
	dst, err := c.net.EnterWire(bound)
	if err != nil {
		return inet.NoWire, err
	}
	if k, err := c.net.Kind(dst.Agent); err != nil {
		return inet.NoWire, err
	} else if k == inet.KindEra {
		return dst, nil
	}

	dup := c.alloc(inet.KindDup)
	if err := c.net.LinkWires(inet.Wire{Agent: dup, Port: inet.Principal}, bound); err != nil {
		return inet.NoWire, err
	}
	if err := c.net.LinkWires(inet.Wire{Agent: dup, Port: inet.Aux2}, dst); err != nil {
		return inet.NoWire, err
	}
	return inet.Wire{Agent: dup, Port: inet.Aux1}, nil
}

func (c *compiler) application(fun, arg lambda.Term, vars env) (inet.Wire, error) {
	app := c.alloc(inet.KindApp)

	f, err := c.build(fun, vars)
	if err != nil {
		return inet.NoWire, err
	}
	if err := c.attach(inet.Wire{Agent: app, Port: inet.Principal}, f); err != nil {
		return inet.NoWire, err
	}

	a, err := c.build(arg, vars)
	if err != nil {
		return inet.NoWire, err
	}
	if err := c.attach(inet.Wire{Agent: app, Port: inet.Aux2}, a); err != nil {
		return inet.NoWire, err
	}
	return inet.Wire{Agent: app, Port: inet.Aux1}, nil
}

// attach links dst to the compiled value w. When w is a binder's Era
// placeholder the Era is dropped and dst is linked to the binder port itself.
func (c *compiler) attach(dst, w inet.Wire) error {
	w, err := c.collapse(w)
	if err != nil {
		return err
	}
	return c.net.LinkWires(dst, w)
}

func (c *compiler) collapse(w inet.Wire) (inet.Wire, error) {
	k, err := c.net.Kind(w.Agent)
	if err != nil {
		return inet.NoWire, err
	}
	if k != inet.KindEra {
		return w, nil
	}
	other, err := c.net.Enter(w.Agent, inet.Principal)
	if err != nil {
		return inet.NoWire, err
	}
	if !other.Connected() {
		return w, nil
	}
	if err := c.net.FreeAgent(w.Agent); err != nil {
		return inet.NoWire, err
	}
	return other, nil
}
