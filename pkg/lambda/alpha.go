package lambda

import (
	"fmt"
	"strings"
)

// Canonical renames bound variables to x0, x1, ... in binding order, so two
// alpha equivalent terms have the same canonical form. Free variables keep
// their names and Let is desugared first. If a free variable already looks
// like a canonical name the prefix grows underscores until it does not.
func Canonical(t Term) Term {
	t = Desugar(t)
	prefix := "x"
	for clashes(prefix, FreeVars(t)) {
		prefix = "_" + prefix
	}
	bindings := make(map[string]string)
	var idx int
	var walk func(Term) Term
	walk = func(tt Term) Term {
		switch v := tt.(type) {
		case Var:
			if name, ok := bindings[v.Name]; ok {
				return Var{Name: name}
			}
			return v
		case Abs:
			canon := fmt.Sprintf("%s%d", prefix, idx)
			idx++
			// shadowing: save old if any
			old, had := bindings[v.Arg]
			bindings[v.Arg] = canon
			body := walk(v.Body)
			if had {
				bindings[v.Arg] = old
			} else {
				delete(bindings, v.Arg)
			}
			return Abs{Arg: canon, Body: body}
		case App:
			return App{Fun: walk(v.Fun), Arg: walk(v.Arg)}
		default:
			return tt
		}
	}
	return walk(t)
}

// AlphaEqual reports whether a and b differ only in bound variable names.
func AlphaEqual(a, b Term) bool {
	return Canonical(a).String() == Canonical(b).String()
}

func clashes(prefix string, names []string) bool {
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		if strings.Trim(rest, "0123456789") == "" {
			return true
		}
	}
	return false
}
