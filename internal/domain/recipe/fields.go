package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// Field names used in MalformedFieldError.
const (
	FieldIngredients = "ingredients"
	FieldTags        = "tags"
)

// Ingredient is one entry of a recipe's ingredient list. Stored either as a
// bare string or as an object with a "name" attribute.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// MarshalJSON encodes a name-only ingredient as a bare string.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.Amount == "" {
		return json.Marshal(i.Name)
	}
	type plain Ingredient
	return json.Marshal(plain(i))
}

// UnmarshalJSON accepts either a string or an object with a name.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err //nolint:wrapcheck // decoder error is the contract here
		}
		*i = Ingredient{Name: s}
		return nil
	}
	type plain Ingredient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err //nolint:wrapcheck // decoder error is the contract here
	}
	*i = Ingredient(p)
	return nil
}

// EncodeIngredients serializes ingredients into the stored list form.
func EncodeIngredients(items []Ingredient) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(data), nil
}

// EncodeTags serializes tags into the stored list form. Blank tags are dropped.
func EncodeTags(tags []string) (string, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

// ParseIngredients decodes the stored ingredient list. Entries that are
// neither strings nor objects with a name are skipped. An empty payload
// yields no ingredients.
func ParseIngredients(raw string) ([]Ingredient, error) {
	elems, err := decodeList(raw)
	if err != nil || elems == nil {
		return nil, err
	}
	out := make([]Ingredient, 0, len(elems))
	for _, e := range elems {
		var ing Ingredient
		if err := json.Unmarshal(e, &ing); err != nil || ing.Name == "" {
			continue
		}
		out = append(out, ing)
	}
	return out, nil
}

// ParseTags decodes the stored tag list, skipping non-string entries.
func ParseTags(raw string) ([]string, error) {
	elems, err := decodeList(raw)
	if err != nil || elems == nil {
		return nil, err
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeList(raw string) ([]json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return elems, nil
}

// IngredientNames returns the ingredient names of r. On a malformed payload it
// returns nil and a *domain.MalformedFieldError.
func (r *Recipe) IngredientNames() ([]string, error) {
	items, err := ParseIngredients(r.Ingredients)
	if err != nil {
		return nil, &domain.MalformedFieldError{RecipeID: r.ID, Field: FieldIngredients, Err: err}
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names, nil
}

// TagList returns the tags of r. On a malformed payload it returns nil and a
// *domain.MalformedFieldError.
func (r *Recipe) TagList() ([]string, error) {
	tags, err := ParseTags(r.Tags)
	if err != nil {
		return nil, &domain.MalformedFieldError{RecipeID: r.ID, Field: FieldTags, Err: err}
	}
	return tags, nil
}

// IngredientTokens returns the index tokens of the ingredient list. A
// malformed payload degrades to the whitespace tokens of the raw text; the
// returned error reports the degradation and is informational.
func (r *Recipe) IngredientTokens() ([]string, error) {
	names, err := r.IngredientNames()
	if err != nil {
		return Tokenize(r.Ingredients), err
	}
	var tokens []string
	for _, n := range names {
		tokens = append(tokens, Tokenize(n)...)
	}
	return tokens, nil
}

// TagTokens returns one normalized token per tag. A malformed payload
// degrades to comma-separated entries of the raw text.
func (r *Recipe) TagTokens() ([]string, error) {
	tags, err := r.TagList()
	if err != nil {
		var out []string
		for _, part := range strings.Split(r.Tags, ",") {
			if t := Normalize(part); t != "" {
				out = append(out, t)
			}
		}
		return out, err
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = Normalize(t); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
