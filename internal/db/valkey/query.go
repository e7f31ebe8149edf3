package valkey

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

const backendName = "valkey"

// compileQuery renders a condition tree as an FT.SEARCH query (DIALECT 2).
// TEXT fields fold case, so only case-insensitive modes are supported.
func compileQuery(t *db.Table, n condition.Node) (string, error) {
	if n == nil {
		return "*", nil
	}
	switch v := n.(type) {
	case condition.Leaf:
		return compileLeaf(t, v)
	case condition.And:
		return compileBinary(t, v.Left, v.Right, " ")
	case condition.Or:
		return compileBinary(t, v.Left, v.Right, " | ")
	default:
		return "", fmt.Errorf("%w: unexpected node %T", db.ErrInvalidQuery, n)
	}
}

func compileBinary(t *db.Table, l, r condition.Node, sep string) (string, error) {
	left, err := compileQuery(t, l)
	if err != nil {
		return "", err
	}
	right, err := compileQuery(t, r)
	if err != nil {
		return "", err
	}
	return "(" + left + sep + right + ")", nil
}

func compileLeaf(t *db.Table, leaf condition.Leaf) (string, error) {
	l := leaf.Lookup
	if l.Depth() > 2 {
		return "", fmt.Errorf("%w: %s traverses more than one relation", db.ErrInvalidQuery, l)
	}
	if rel := l.Relation(); rel != "" {
		if _, ok := t.Relation(rel); !ok {
			return "", fmt.Errorf("%w: %q on %s", db.ErrUnknownRelation, rel, t.Name)
		}
	}

	words := strings.Fields(leaf.Term)
	if len(words) == 0 {
		return "", fmt.Errorf("%w: blank term for %s", db.ErrInvalidQuery, l)
	}

	switch l.Mode() {
	case lookup.IExact:
		return "@" + tagKey(l) + ":{" + tagEscaper.Replace(leaf.Term) + "}", nil
	case lookup.IContains:
		return textClause(FieldKey(l), words, "*", "*"), nil
	case lookup.IStartsWith:
		return textClause(FieldKey(l), words, "", "*"), nil
	case lookup.Search:
		return textClause(FieldKey(l), words, "", ""), nil
	default:
		return "", domain.NewLookupError(string(l.Mode()), backendName)
	}
}

// textClause matches every word in field, each wrapped in pre/post wildcards.
func textClause(field string, words []string, pre, post string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = pre + escapeQuery(w) + post
	}
	if len(parts) == 1 {
		return "@" + field + ":" + parts[0]
	}
	return "@" + field + ":(" + strings.Join(parts, " ") + ")"
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`.`, `\.`,
	`,`, `\,`,
)
