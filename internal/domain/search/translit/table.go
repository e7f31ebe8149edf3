// Package translit rewrites search terms between Latin and Cyrillic letters
// using fixed one-to-one character tables.
package translit

import "fmt"

// Pair is a single source→target entry of a transliteration table.
type Pair struct {
	From rune
	To   rune
}

// Table is an immutable rune→rune mapping. A rune absent from the table
// is passed through unchanged.
type Table struct {
	m map[rune]rune
}

// Lookup returns the replacement for r and whether the table maps it.
func (t Table) Lookup(r rune) (rune, bool) {
	to, ok := t.m[r]
	return to, ok
}

// Len returns the number of mapped runes.
func (t Table) Len() int { return len(t.m) }

// Pairs returns a copy of the table contents.
func (t Table) Pairs() map[rune]rune {
	out := make(map[rune]rune, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}

// NewTable validates pairs and builds a Table.
func NewTable(pairs []Pair) (Table, error) {
	if err := Validate(pairs); err != nil {
		return Table{}, err
	}
	m := make(map[rune]rune, len(pairs))
	for _, p := range pairs {
		m[p.From] = p.To
	}
	return Table{m: m}, nil
}

// Validate checks that no source maps to two distinct targets and that no
// target is also a source. The second rule keeps Process idempotent.
func Validate(pairs []Pair) error {
	seen := make(map[rune]rune, len(pairs))
	for _, p := range pairs {
		if prev, ok := seen[p.From]; ok && prev != p.To {
			return fmt.Errorf("rune %q maps to both %q and %q", p.From, prev, p.To)
		}
		seen[p.From] = p.To
	}
	for _, p := range pairs {
		if _, ok := seen[p.To]; ok {
			return fmt.Errorf("target %q of %q is also a source", p.To, p.From)
		}
	}
	return nil
}

func mustTable(pairs []Pair) Table {
	t, err := NewTable(pairs)
	if err != nil {
		panic("translit: " + err.Error())
	}
	return t
}

// latinToCyrillic is a single-letter ISO 9 style subset.
var latinToCyrillic = []Pair{
	{'A', 'А'}, {'a', 'а'},
	{'B', 'Б'}, {'b', 'б'},
	{'V', 'В'}, {'v', 'в'},
	{'G', 'Г'}, {'g', 'г'},
	{'D', 'Д'}, {'d', 'д'},
	{'E', 'Е'}, {'e', 'е'},
	{'Z', 'З'}, {'z', 'з'},
	{'I', 'И'}, {'i', 'и'},
	{'J', 'Й'}, {'j', 'й'},
	{'K', 'К'}, {'k', 'к'},
	{'L', 'Л'}, {'l', 'л'},
	{'M', 'М'}, {'m', 'м'},
	{'N', 'Н'}, {'n', 'н'},
	{'O', 'О'}, {'o', 'о'},
	{'P', 'П'}, {'p', 'п'},
	{'R', 'Р'}, {'r', 'р'},
	{'S', 'С'}, {'s', 'с'},
	{'T', 'Т'}, {'t', 'т'},
	{'U', 'У'}, {'u', 'у'},
	{'F', 'Ф'}, {'f', 'ф'},
	{'H', 'Х'}, {'h', 'х'},
	{'C', 'Ц'}, {'c', 'ц'},
	{'Y', 'Ы'}, {'y', 'ы'},
}

// cyrillicToLatin is authored separately from latinToCyrillic: ё and э fold
// into e, so the two tables are not inverses. Letters whose sound needs more
// than one Latin letter (ж, ч, ш, щ, ю, я) and the hard/soft signs stay as is.
var cyrillicToLatin = []Pair{
	{'А', 'A'}, {'а', 'a'},
	{'Б', 'B'}, {'б', 'b'},
	{'В', 'V'}, {'в', 'v'},
	{'Г', 'G'}, {'г', 'g'},
	{'Д', 'D'}, {'д', 'd'},
	{'Е', 'E'}, {'е', 'e'},
	{'Ё', 'E'}, {'ё', 'e'},
	{'Э', 'E'}, {'э', 'e'},
	{'З', 'Z'}, {'з', 'z'},
	{'И', 'I'}, {'и', 'i'},
	{'Й', 'J'}, {'й', 'j'},
	{'К', 'K'}, {'к', 'k'},
	{'Л', 'L'}, {'л', 'l'},
	{'М', 'M'}, {'м', 'm'},
	{'Н', 'N'}, {'н', 'n'},
	{'О', 'O'}, {'о', 'o'},
	{'П', 'P'}, {'п', 'p'},
	{'Р', 'R'}, {'р', 'r'},
	{'С', 'S'}, {'с', 's'},
	{'Т', 'T'}, {'т', 't'},
	{'У', 'U'}, {'у', 'u'},
	{'Ф', 'F'}, {'ф', 'f'},
	{'Х', 'H'}, {'х', 'h'},
	{'Ц', 'C'}, {'ц', 'c'},
	{'Ы', 'Y'}, {'ы', 'y'},
}

// Process-wide tables. Never written after init.
var (
	ToLatin    = mustTable(cyrillicToLatin)
	ToCyrillic = mustTable(latinToCyrillic)
)
