// Package lookup describes how a search term is matched against one field,
// optionally reached through a related record.
package lookup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sep joins path elements and the mode in the canonical lookup form.
const Sep = "__"

// Mode is the match predicate applied between a field value and a term.
type Mode string

const (
	// Exact requires value == term.
	Exact Mode = "exact"
	// IExact is Exact under Unicode case folding.
	IExact Mode = "iexact"
	// Contains requires term to be a substring of value.
	Contains Mode = "contains"
	// IContains is Contains under Unicode case folding.
	IContains Mode = "icontains"
	// StartsWith requires value to begin with term.
	StartsWith Mode = "startswith"
	// IStartsWith is StartsWith under Unicode case folding.
	IStartsWith Mode = "istartswith"
	// Search is a backend full-text match.
	Search Mode = "search"
	// IRegex treats term as a case-insensitive regular expression.
	IRegex Mode = "iregex"
)

// Default is used when a field carries neither prefix nor explicit mode.
const Default = IContains

var modes = map[Mode]struct{}{
	Exact: {}, IExact: {}, Contains: {}, IContains: {},
	StartsWith: {}, IStartsWith: {}, Search: {}, IRegex: {},
}

var prefixes = map[byte]Mode{
	'^': IStartsWith,
	'=': IExact,
	'@': Search,
	'$': IRegex,
}

var (
	// ErrInvalidField is returned for malformed search field declarations.
	ErrInvalidField = errors.New("invalid search field")
	// ErrInvalidPattern is returned for an iregex term that does not compile.
	ErrInvalidPattern = errors.New("invalid regular expression")
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	_, ok := modes[m]
	return ok
}

// CaseInsensitive reports whether m folds case before comparing.
func (m Mode) CaseInsensitive() bool {
	switch m {
	case IExact, IContains, IStartsWith, Search, IRegex:
		return true
	default:
		return false
	}
}

// Lookup is a field path plus match mode. The zero value is not usable.
type Lookup struct {
	path []string
	mode Mode
}

// New builds a Lookup from an explicit path and mode.
func New(path []string, mode Mode) (Lookup, error) {
	if len(path) == 0 {
		return Lookup{}, fmt.Errorf("%w: empty path", ErrInvalidField)
	}
	for _, p := range path {
		if p == "" {
			return Lookup{}, fmt.Errorf("%w: empty path element in %q", ErrInvalidField, strings.Join(path, "."))
		}
	}
	if !mode.IsValid() {
		return Lookup{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidField, mode)
	}
	return Lookup{path: append([]string(nil), path...), mode: mode}, nil
}

// Parse turns a declared search field into a Lookup.
//
// A leading ^, =, @ or $ selects istartswith, iexact, search or iregex; no
// prefix means icontains. Path elements are separated by "." or "__", and a
// trailing "__<mode>" overrides the prefix.
func Parse(field string) (Lookup, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return Lookup{}, fmt.Errorf("%w: empty field", ErrInvalidField)
	}

	mode := Default
	if m, ok := prefixes[field[0]]; ok {
		mode = m
		field = field[1:]
	}

	parts := strings.Split(strings.ReplaceAll(field, ".", Sep), Sep)
	if n := len(parts); n > 1 {
		if m := Mode(parts[n-1]); m.IsValid() {
			mode = m
			parts = parts[:n-1]
		}
	}

	return New(parts, mode)
}

// Construct is Parse for declarations already validated at startup.
func Construct(field string) Lookup {
	l, err := Parse(field)
	if err != nil {
		panic(err)
	}
	return l
}

// Path returns a copy of the field path.
func (l Lookup) Path() []string { return append([]string(nil), l.path...) }

// Field returns the last path element: the column being matched.
func (l Lookup) Field() string {
	if len(l.path) == 0 {
		return ""
	}
	return l.path[len(l.path)-1]
}

// Relation returns the traversed relation name, or "" for a local field.
func (l Lookup) Relation() string {
	if len(l.path) < 2 {
		return ""
	}
	return l.path[len(l.path)-2]
}

// Depth is the number of path elements.
func (l Lookup) Depth() int { return len(l.path) }

// Mode returns the match mode.
func (l Lookup) Mode() Mode { return l.mode }

// String renders the canonical form, e.g. "city__name__icontains".
func (l Lookup) String() string {
	return strings.Join(l.path, Sep) + Sep + string(l.mode)
}

// Match applies the mode to a single value in memory.
func (l Lookup) Match(value, term string) bool {
	return l.mode.Match(value, term)
}

// Match applies m to value and term. A term that is not a valid pattern
// for m never matches; use Matcher to surface the error.
func (m Mode) Match(value, term string) bool {
	match, err := m.Matcher(term)
	if err != nil {
		return false
	}
	return match(value)
}

// Matcher binds term to m so it can be applied to many values. Patterns
// are compiled once here.
func (m Mode) Matcher(term string) (func(value string) bool, error) {
	switch m {
	case Exact:
		return func(v string) bool { return v == term }, nil
	case IExact:
		return func(v string) bool { return strings.EqualFold(v, term) }, nil
	case Contains:
		return func(v string) bool { return strings.Contains(v, term) }, nil
	case IContains, Search:
		lt := strings.ToLower(term)
		return func(v string) bool { return strings.Contains(strings.ToLower(v), lt) }, nil
	case StartsWith:
		return func(v string) bool { return strings.HasPrefix(v, term) }, nil
	case IStartsWith:
		lt := strings.ToLower(term)
		return func(v string) bool { return strings.HasPrefix(strings.ToLower(v), lt) }, nil
	case IRegex:
		re, err := CompilePattern(term)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	default:
		return func(string) bool { return false }, nil
	}
}

// CompilePattern compiles an iregex term case-insensitively.
func CompilePattern(term string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, term, err)
	}
	return re, nil
}
