package request

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/scriptsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed raw search parameter length.
	MaxQueryLength  = 4096
	MaxTerms        = 16
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits bounds pagination. Zero fields fall back to the package defaults.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = MaxPageSize
	}
	if l.DefaultPageSize > l.MaxPageSize {
		l.DefaultPageSize = l.MaxPageSize
	}
	return l
}

// Request is a validated list/search query over a view.
type Request struct {
	raw      string
	terms    []string
	page     int
	pageSize int
}

// New parses the raw search parameter and normalizes pagination.
// An empty raw string is valid and yields no terms.
// Defaults: page=1, pageSize=limits.DefaultPageSize; pageSize is clamped to the max.
func New(raw string, page, pageSize int, limits Limits) (Request, error) {
	if len(raw) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: search too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	terms := ParseTerms(raw)
	if len(terms) > MaxTerms {
		return Request{}, fmt.Errorf("%w: too many search terms (max %d)", domain.ErrInvalidRequest, MaxTerms)
	}
	if page < 0 {
		return Request{}, fmt.Errorf("%w: page must be positive", domain.ErrInvalidRequest)
	}
	if pageSize < 0 {
		return Request{}, fmt.Errorf("%w: page_size must be positive", domain.ErrInvalidRequest)
	}

	limits = limits.withDefaults()
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = limits.DefaultPageSize
	}
	if pageSize > limits.MaxPageSize {
		pageSize = limits.MaxPageSize
	}
	if page > math.MaxInt/pageSize {
		return Request{}, fmt.Errorf("%w: page out of range", domain.ErrInvalidRequest)
	}

	return Request{raw: raw, terms: terms, page: page, pageSize: pageSize}, nil
}

// Raw returns the search parameter as received.
func (r Request) Raw() string { return r.raw }

// Terms returns the parsed search terms.
func (r Request) Terms() []string { return append([]string(nil), r.terms...) }

// Page returns the 1-based page number.
func (r Request) Page() int { return r.page }

// PageSize returns the number of records per page.
func (r Request) PageSize() int { return r.pageSize }

// Offset returns the number of records skipped before this page.
func (r Request) Offset() int { return (r.page - 1) * r.pageSize }

// ParseTerms splits a search parameter into terms. NUL bytes are dropped,
// commas separate like whitespace, and double-quoted phrases stay whole.
func ParseTerms(raw string) []string {
	raw = strings.ReplaceAll(raw, "\x00", "")

	var terms []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			terms = append(terms, cur.String())
			cur.Reset()
		}
	}

	for _, r := range raw {
		switch {
		case r == '"':
			if inQuotes {
				flush()
			}
			inQuotes = !inQuotes
		case inQuotes:
			cur.WriteRune(r)
		case r == ',' || unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return terms
}
