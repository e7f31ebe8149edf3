// Package condition holds the boolean match tree produced by a search
// request. Backends translate the tree into their own query language.
package condition

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

// Node is one of Leaf, And or Or.
type Node interface {
	node()
}

// Leaf is satisfied when the field named by Lookup matches Term.
type Leaf struct {
	Lookup lookup.Lookup
	Term   string
}

// And is satisfied when both sides are.
type And struct {
	Left, Right Node
}

// Or is satisfied when either side is.
type Or struct {
	Left, Right Node
}

func (Leaf) node() {}
func (And) node()  {}
func (Or) node()   {}

// AllOf left-folds nodes with And. It returns nil for no nodes.
func AllOf(nodes ...Node) Node {
	return fold(nodes, func(l, r Node) Node { return And{Left: l, Right: r} })
}

// AnyOf left-folds nodes with Or. It returns nil for no nodes.
func AnyOf(nodes ...Node) Node {
	return fold(nodes, func(l, r Node) Node { return Or{Left: l, Right: r} })
}

func fold(nodes []Node, op func(l, r Node) Node) Node {
	if len(nodes) == 0 {
		return nil
	}
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = op(acc, n)
	}
	return acc
}

// Build returns (t1@f1 OR t1@f2 ...) AND (t2@f1 OR t2@f2 ...) AND ...
// Callers must pass non-empty terms and lookups; otherwise the result is nil.
func Build(terms []string, lookups []lookup.Lookup) Node {
	if len(terms) == 0 || len(lookups) == 0 {
		return nil
	}
	perTerm := make([]Node, 0, len(terms))
	for _, term := range terms {
		leaves := make([]Node, 0, len(lookups))
		for _, l := range lookups {
			leaves = append(leaves, Leaf{Lookup: l, Term: term})
		}
		perTerm = append(perTerm, AnyOf(leaves...))
	}
	return AllOf(perTerm...)
}

// Walk visits n depth-first, left before right. Returning false from fn
// stops descent below the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case And:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	case Or:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	}
}

// Leaves returns the leaves of n in left-to-right order.
func Leaves(n Node) []Leaf {
	var out []Leaf
	Walk(n, func(n Node) bool {
		if l, ok := n.(Leaf); ok {
			out = append(out, l)
		}
		return true
	})
	return out
}

// Lookups returns the distinct lookups referenced by n, first-seen order.
func Lookups(n Node) []lookup.Lookup {
	seen := make(map[string]struct{})
	var out []lookup.Lookup
	for _, l := range Leaves(n) {
		key := l.Lookup.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l.Lookup)
	}
	return out
}

// String renders n with explicit parentheses around every And/Or.
func String(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case Leaf:
		b.WriteString(v.Lookup.String())
		b.WriteByte(':')
		b.WriteString(strconv.Quote(v.Term))
	case And:
		b.WriteByte('(')
		write(b, v.Left)
		b.WriteString(" AND ")
		write(b, v.Right)
		b.WriteByte(')')
	case Or:
		b.WriteByte('(')
		write(b, v.Left)
		b.WriteString(" OR ")
		write(b, v.Right)
		b.WriteByte(')')
	}
}
