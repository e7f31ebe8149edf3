package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

// Dialect renders backend-specific SQL fragments.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	// Predicate renders "col matches term" under mode. bind registers an
	// argument and returns its placeholder.
	Predicate(col string, mode lookup.Mode, term string, bind func(any) string) (string, error)
}

// UnicodeLower is the scalar function the SQLite backend registers for
// case folding beyond ASCII.
const UnicodeLower = "unicode_lower"

// SQLite uses ? placeholders and instr() with a registered lower function.
type SQLite struct{}

// Name implements Dialect.
func (SQLite) Name() string { return "sqlite" }

// Placeholder implements Dialect.
func (SQLite) Placeholder(int) string { return "?" }

// Predicate implements Dialect.
func (d SQLite) Predicate(col string, mode lookup.Mode, term string, bind func(any) string) (string, error) {
	lower := func(s string) string { return UnicodeLower + "(" + s + ")" }
	switch mode {
	case lookup.Exact:
		return col + " = " + bind(term), nil
	case lookup.IExact:
		return lower(col) + " = " + lower(bind(term)), nil
	case lookup.Contains:
		return "instr(" + col + ", " + bind(term) + ") > 0", nil
	case lookup.IContains, lookup.Search:
		return "instr(" + lower(col) + ", " + lower(bind(term)) + ") > 0", nil
	case lookup.StartsWith:
		return "instr(" + col + ", " + bind(term) + ") = 1", nil
	case lookup.IStartsWith:
		return "instr(" + lower(col) + ", " + lower(bind(term)) + ") = 1", nil
	default:
		return "", domain.NewLookupError(string(mode), d.Name())
	}
}

// Postgres uses $n placeholders, ILIKE and POSIX regex operators.
type Postgres struct{}

// Name implements Dialect.
func (Postgres) Name() string { return "postgres" }

// Placeholder implements Dialect.
func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// Predicate implements Dialect.
func (d Postgres) Predicate(col string, mode lookup.Mode, term string, bind func(any) string) (string, error) {
	const esc = ` ESCAPE '\'`
	switch mode {
	case lookup.Exact:
		return col + " = " + bind(term), nil
	case lookup.IExact:
		return "LOWER(" + col + ") = LOWER(" + bind(term) + ")", nil
	case lookup.Contains:
		return col + " LIKE " + bind("%"+EscapeLike(term)+"%") + esc, nil
	case lookup.IContains:
		return col + " ILIKE " + bind("%"+EscapeLike(term)+"%") + esc, nil
	case lookup.StartsWith:
		return col + " LIKE " + bind(EscapeLike(term)+"%") + esc, nil
	case lookup.IStartsWith:
		return col + " ILIKE " + bind(EscapeLike(term)+"%") + esc, nil
	case lookup.Search:
		return "to_tsvector('simple', " + col + ") @@ plainto_tsquery('simple', " + bind(term) + ")", nil
	case lookup.IRegex:
		if _, err := lookup.CompilePattern(term); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		return col + " ~* " + bind(term), nil
	default:
		return "", domain.NewLookupError(string(mode), d.Name())
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// QuoteIdent double-quotes an identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
