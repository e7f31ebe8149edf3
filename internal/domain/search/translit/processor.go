package translit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Script is the alphabet a term is rewritten toward.
type Script string

const (
	// Latin rewrites Cyrillic letters into Latin ones.
	Latin Script = "latin"
	// Cyrillic rewrites Latin letters into Cyrillic ones.
	Cyrillic Script = "cyrillic"
)

// ParseScript converts a user-supplied name into a Script.
func ParseScript(s string) (Script, error) {
	switch Script(strings.ToLower(s)) {
	case Latin:
		return Latin, nil
	case Cyrillic:
		return Cyrillic, nil
	default:
		return "", fmt.Errorf("unknown script %q (want latin or cyrillic)", s)
	}
}

// Processor substitutes runes of a term through one table.
type Processor struct {
	script Script
	table  Table
}

// NewProcessor returns a processor biased toward script.
// Unknown scripts get an empty table and leave input untouched.
func NewProcessor(script Script) Processor {
	switch script {
	case Latin:
		return Processor{script: script, table: ToLatin}
	case Cyrillic:
		return Processor{script: script, table: ToCyrillic}
	default:
		return Processor{script: script}
	}
}

// Script returns the target script.
func (p Processor) Script() Script { return p.script }

// Process rewrites every mapped rune of term and keeps the rest.
// The result has the same number of runes as term. Invalid UTF-8 bytes are
// copied through unchanged.
func (p Processor) Process(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for i := 0; i < len(term); {
		r, size := utf8.DecodeRuneInString(term[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(term[i])
			i++
			continue
		}
		if to, ok := p.table.Lookup(r); ok {
			b.WriteRune(to)
		} else {
			b.WriteString(term[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Expand processes each term, preserving length and order.
func Expand(p Processor, terms []string) []string {
	return lo.Map(terms, func(t string, _ int) string {
		return p.Process(t)
	})
}
