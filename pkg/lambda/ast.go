// Package lambda holds the untyped lambda calculus front end: the term AST,
// a parser for source text, alpha comparison, and readback of a reduced
// interaction net into a term.
package lambda

import "fmt"

// Term represents a lambda calculus term.
type Term interface {
	String() string
}

// Var represents a variable usage.
type Var struct {
	Name string
}

func (v Var) String() string {
	return v.Name
}

// Abs represents an abstraction (lambda).
type Abs struct {
	Arg  string
	Body Term
}

func (a Abs) String() string {
	return fmt.Sprintf("(%s: %s)", a.Arg, a.Body)
}

// App represents an application.
type App struct {
	Fun Term
	Arg Term
}

func (a App) String() string {
	return fmt.Sprintf("(%s %s)", a.Fun, a.Arg)
}

// Let represents a let binding (sugar for application).
// let x = Val; in Body -> (\x. Body) Val
type Let struct {
	Name string
	Val  Term
	Body Term
}

func (l Let) String() string {
	return fmt.Sprintf("(let %s = %s; in %s)", l.Name, l.Val, l.Body)
}

// Desugar rewrites every Let in t into an application of an abstraction.
func Desugar(t Term) Term {
	switch v := t.(type) {
	case Abs:
		return Abs{Arg: v.Arg, Body: Desugar(v.Body)}
	case App:
		return App{Fun: Desugar(v.Fun), Arg: Desugar(v.Arg)}
	case Let:
		return App{Fun: Abs{Arg: v.Name, Body: Desugar(v.Body)}, Arg: Desugar(v.Val)}
	default:
		return t
	}
}

// FreeVars returns the free variable names of t in order of first
// occurrence.
func FreeVars(t Term) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Term, map[string]int)
	walk = func(t Term, bound map[string]int) {
		switch v := t.(type) {
		case Var:
			if bound[v.Name] == 0 && !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		case Abs:
			bound[v.Arg]++
			walk(v.Body, bound)
			bound[v.Arg]--
		case App:
			walk(v.Fun, bound)
			walk(v.Arg, bound)
		case Let:
			walk(v.Val, bound)
			bound[v.Name]++
			walk(v.Body, bound)
			bound[v.Name]--
		}
	}
	walk(t, make(map[string]int))
	return out
}
