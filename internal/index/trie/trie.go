// Package trie implements the token trie used by the recipe search index.
//
// Every node on the path of an inserted token accumulates the recipe id, so a
// prefix lookup is a single walk with no subtree traversal. Proper suffixes of
// each token are kept under a second root, which turns substring lookup into
// the same prefix walk. Nodes live in one arena slice and refer to each other
// by integer handle; dropping a trie is a single slice reset.
package trie

import "github.com/kailas-cloud/recipedex/internal/domain/recipe"

type handle uint32

const (
	prefixRoot handle = 0
	suffixRoot handle = 1
)

type node struct {
	children map[rune]handle
	ids      Set
	terminal bool
}

// Trie maps tokens to the ids of the recipes containing them.
// It is not safe for concurrent mutation; concurrent lookups are fine once
// insertion has finished.
type Trie struct {
	nodes  []node
	tokens int
}

// New creates an empty trie.
func New() *Trie {
	t := &Trie{}
	t.Reset()
	return t
}

// Reset drops every node and leaves the two empty roots.
func (t *Trie) Reset() {
	t.nodes = append(t.nodes[:0], node{}, node{})
	t.tokens = 0
}

// Insert adds id to every node along token's path and marks the last node
// terminal. The token is normalized first; an empty token is a no-op.
// Repeating the same (token, id) pair has no further effect.
func (t *Trie) Insert(token string, id int64) {
	token = recipe.Normalize(token)
	if token == "" {
		return
	}

	end := t.insertPath(prefixRoot, token, id)
	if !t.nodes[end].terminal {
		t.nodes[end].terminal = true
		t.tokens++
	}
	for i := range token {
		if i > 0 {
			t.insertPath(suffixRoot, token[i:], id)
		}
	}
}

func (t *Trie) insertPath(from handle, path string, id int64) handle {
	cur := from
	for _, r := range path {
		next, ok := t.nodes[cur].children[r]
		if !ok {
			next = t.alloc()
			if t.nodes[cur].children == nil {
				t.nodes[cur].children = make(map[rune]handle, 1)
			}
			t.nodes[cur].children[r] = next
		}
		cur = next
		if t.nodes[cur].ids == nil {
			t.nodes[cur].ids = make(Set, 1)
		}
		t.nodes[cur].ids.Add(id)
	}
	return cur
}

func (t *Trie) alloc() handle {
	t.nodes = append(t.nodes, node{})
	return handle(len(t.nodes) - 1)
}

// walk follows path from the given root. ok is false when the path does not exist.
func (t *Trie) walk(from handle, path string) (handle, bool) {
	cur := from
	for _, r := range path {
		next, ok := t.nodes[cur].children[r]
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// LookupPrefix returns the ids of all recipes with a token starting with prefix.
func (t *Trie) LookupPrefix(prefix string) Set {
	out := make(Set)
	t.collect(prefixRoot, recipe.Normalize(prefix), out)
	return out
}

// LookupSubstring returns the ids of all recipes with a token containing s:
// the prefix set of s unioned with the prefix set of s over token suffixes.
func (t *Trie) LookupSubstring(s string) Set {
	out := make(Set)
	t.CollectSubstring(s, out)
	return out
}

// CollectSubstring adds the LookupSubstring result for s into dst.
func (t *Trie) CollectSubstring(s string, dst Set) {
	s = recipe.Normalize(s)
	t.collect(prefixRoot, s, dst)
	t.collect(suffixRoot, s, dst)
}

func (t *Trie) collect(from handle, prefix string, dst Set) {
	if prefix == "" {
		return
	}
	h, ok := t.walk(from, prefix)
	if !ok {
		return
	}
	dst.Union(t.nodes[h].ids)
}

// Contains reports whether token was inserted as a whole token.
func (t *Trie) Contains(token string) bool {
	token = recipe.Normalize(token)
	if token == "" {
		return false
	}
	h, ok := t.walk(prefixRoot, token)
	return ok && t.nodes[h].terminal
}

// Tokens returns the number of distinct tokens inserted.
func (t *Trie) Tokens() int { return t.tokens }

// Nodes returns the arena size, both roots included.
func (t *Trie) Nodes() int { return len(t.nodes) }
