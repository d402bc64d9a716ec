// Package index holds one immutable generation of the recipe search index:
// a token trie per searchable field plus the category map.
package index

import (
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/index/trie"
)

// minWordLength is the shortest constituent word looked up separately for a
// multi-word query.
const minWordLength = 2

// Stats describes a built generation.
type Stats struct {
	Recipes         int
	NameTokens      int
	IngredientTerms int
	TagTokens       int
	Categories      int
	MalformedFields int
}

// Generation is one complete build of the tries and the category index.
// It is never mutated after Build returns, so readers need no locking.
type Generation struct {
	names       *trie.Trie
	ingredients *trie.Trie
	tags        *trie.Trie
	categories  map[string]trie.Set
	stats       Stats
}

// FieldError reports a per-record field that degraded to its fallback form.
type FieldError func(err error)

// Build indexes recipes into a fresh generation. Malformed ingredient or tag
// payloads are indexed through their fallback form and reported to onField
// (which may be nil); they never abort the build.
func Build(recipes []recipe.Recipe, onField FieldError) *Generation {
	g := &Generation{
		names:       trie.New(),
		ingredients: trie.New(),
		tags:        trie.New(),
		categories:  make(map[string]trie.Set),
	}

	for i := range recipes {
		r := &recipes[i]

		for _, w := range recipe.Tokenize(r.Name) {
			g.names.Insert(w, r.ID)
		}

		ingTokens, err := r.IngredientTokens()
		if err != nil {
			g.stats.MalformedFields++
			if onField != nil {
				onField(err)
			}
		}
		for _, w := range ingTokens {
			g.ingredients.Insert(w, r.ID)
		}

		tagTokens, err := r.TagTokens()
		if err != nil {
			g.stats.MalformedFields++
			if onField != nil {
				onField(err)
			}
		}
		for _, tag := range tagTokens {
			g.tags.Insert(tag, r.ID)
		}

		if label := strings.ToLower(r.Category); label != "" {
			set, ok := g.categories[label]
			if !ok {
				set = make(trie.Set)
				g.categories[label] = set
			}
			set.Add(r.ID)
		}
	}

	g.stats.Recipes = len(recipes)
	g.stats.NameTokens = g.names.Tokens()
	g.stats.IngredientTerms = g.ingredients.Tokens()
	g.stats.TagTokens = g.tags.Tokens()
	g.stats.Categories = len(g.categories)
	return g
}

// Stats returns build statistics.
func (g *Generation) Stats() Stats { return g.stats }

// Candidates resolves a free-text query to the union of every index lookup:
// substring matches of the whole query in all three tries, categories
// containing the query, and, for multi-word queries, the per-word trie
// matches of each word of at least two characters.
func (g *Generation) Candidates(query string) trie.Set {
	out := make(trie.Set)
	query = strings.TrimSpace(query)
	if query == "" {
		return out
	}

	g.collectFields(query, out)
	g.collectCategories(strings.ToLower(query), out)

	words := strings.Fields(query)
	if len(words) > 1 {
		for _, w := range words {
			if len([]rune(w)) >= minWordLength {
				g.collectFields(w, out)
			}
		}
	}
	return out
}

func (g *Generation) collectFields(term string, dst trie.Set) {
	g.names.CollectSubstring(term, dst)
	g.ingredients.CollectSubstring(term, dst)
	g.tags.CollectSubstring(term, dst)
}

func (g *Generation) collectCategories(needle string, dst trie.Set) {
	for label, ids := range g.categories {
		if strings.Contains(label, needle) {
			dst.Union(ids)
		}
	}
}

// IngredientCandidates unions the ingredient-trie substring matches of each
// non-blank term.
func (g *Generation) IngredientCandidates(terms []string) trie.Set {
	out := make(trie.Set)
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			g.ingredients.CollectSubstring(term, out)
		}
	}
	return out
}

// CategoryCandidates unions the exact and substring category matches of label.
func (g *Generation) CategoryCandidates(label string) trie.Set {
	out := make(trie.Set)
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return out
	}
	if ids, ok := g.categories[needle]; ok {
		out.Union(ids)
	}
	g.collectCategories(needle, out)
	return out
}
