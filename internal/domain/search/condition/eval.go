package condition

import "strings"

// Record exposes field values to Eval. Values returns every value reachable
// through path; a to-many relation yields one value per related row.
type Record interface {
	Values(path []string) []string
}

// Predicate is a compiled tree, reusable across records.
type Predicate func(rec Record) bool

// Compile binds every leaf's term to its lookup once. It fails when a leaf
// term is not valid for its mode, e.g. a malformed iregex pattern.
// A nil node compiles to a predicate matching everything.
func Compile(n Node) (Predicate, error) {
	switch v := n.(type) {
	case nil:
		return func(Record) bool { return true }, nil
	case Leaf:
		match, err := v.Lookup.Mode().Matcher(v.Term)
		if err != nil {
			return nil, err
		}
		path := v.Lookup.Path()
		return func(rec Record) bool {
			for _, val := range rec.Values(path) {
				if match(val) {
					return true
				}
			}
			return false
		}, nil
	case And:
		l, r, err := compilePair(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return func(rec Record) bool { return l(rec) && r(rec) }, nil
	case Or:
		l, r, err := compilePair(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return func(rec Record) bool { return l(rec) || r(rec) }, nil
	default:
		return func(Record) bool { return false }, nil
	}
}

func compilePair(left, right Node) (Predicate, Predicate, error) {
	l, err := Compile(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := Compile(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// Eval reports whether rec satisfies n. A nil node matches everything; a
// tree that does not compile matches nothing.
func Eval(n Node, rec Record) bool {
	p, err := Compile(n)
	if err != nil {
		return false
	}
	return p(rec)
}

// Fields is a flat Record keyed by the joined path ("name", "city.name").
type Fields map[string][]string

// Values implements Record.
func (f Fields) Values(path []string) []string {
	return f[strings.Join(path, ".")]
}
