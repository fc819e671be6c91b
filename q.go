package tofu

import "strings"

// Expr is a node in a filter expression tree: either a Cond leaf or a
// Group combinator built with And, Or, and Not.
type Expr interface {
	exprNode()
}

// Group combines child expressions with a single connector, optionally
// negated.
type Group struct {
	connector string
	negated   bool
	children  []Expr
}

func (*Group) exprNode() {}

// And combines expressions with AND.
func And(exprs ...Expr) *Group {
	return &Group{connector: " AND ", children: exprs}
}

// Or combines expressions with OR.
func Or(exprs ...Expr) *Group {
	return &Group{connector: " OR ", children: exprs}
}

// Not negates an expression. The rendered output is always wrapped in
// NOT (...), including single leaves.
func Not(expr Expr) *Group {
	return &Group{connector: " AND ", negated: true, children: []Expr{expr}}
}

// renderExpr renders an expression tree, binding values through b.
// Groups that render no children produce an empty string, which callers
// skip. More than one rendered child gets parenthesized.
func renderExpr(e Expr, b *binder) (string, error) {
	switch node := e.(type) {
	case Cond:
		return renderCond(node, b)
	case *Group:
		parts := make([]string, 0, len(node.children))
		for _, child := range node.children {
			s, err := renderExpr(child, b)
			if err != nil {
				return "", err
			}
			if s == "" {
				continue
			}
			parts = append(parts, s)
		}
		if len(parts) == 0 {
			return "", nil
		}
		joined := strings.Join(parts, node.connector)
		if len(parts) > 1 {
			joined = "(" + joined + ")"
		}
		if node.negated {
			joined = "NOT (" + joined + ")"
		}
		return joined, nil
	default:
		return "", newQueryError("render", ErrIncompatibleQuery)
	}
}

// collectFields walks an expression tree and reports every field name it
// references, so builders can validate against the model schema up front.
func collectFields(e Expr, out []string) []string {
	switch node := e.(type) {
	case Cond:
		return append(out, node.Field)
	case *Group:
		for _, child := range node.children {
			out = collectFields(child, out)
		}
	}
	return out
}
