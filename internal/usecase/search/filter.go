package search

import (
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
)

// Filter builds the multi-script condition for terms over lookups: a tree
// over the Latin-biased variants OR-ed with a tree over the Cyrillic-biased
// variants. ok is false when either input is empty, meaning "do not filter".
func Filter(lookups []lookup.Lookup, terms []string) (where condition.Node, ok bool) {
	if len(lookups) == 0 || len(terms) == 0 {
		return nil, false
	}

	latin := translit.Expand(translit.NewProcessor(translit.Latin), terms)
	cyrillic := translit.Expand(translit.NewProcessor(translit.Cyrillic), terms)

	return condition.Or{
		Left:  condition.Build(latin, lookups),
		Right: condition.Build(cyrillic, lookups),
	}, true
}
