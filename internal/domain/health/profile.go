// Package health turns a user's health declarations into a normalized profile
// and judges recipes against it.
package health

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Goal is the user's weight goal.
type Goal string

// Goal constants. Any other value ranks like Maintain.
const (
	GoalLose     Goal = "lose"
	GoalGain     Goal = "gain"
	GoalMaintain Goal = "maintain"
)

// Declaration field names.
const (
	FieldAllergies    = "allergies"
	FieldConditions   = "medical_conditions"
	FieldRestrictions = "dietary_restrictions"
)

// Declarations are the raw health fields as stored on a user. Every list
// field is a JSON array of strings, or empty when the user declared nothing.
type Declarations struct {
	Goal                string `json:"goal,omitempty"`
	Allergies           string `json:"allergies,omitempty"`
	MedicalConditions   string `json:"medical_conditions,omitempty"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
}

// Profile is the normalized view of Declarations. Lists keep declaration
// order with duplicates removed; every entry is lower-cased and trimmed.
type Profile struct {
	Goal         Goal
	Allergies    []string
	Conditions   []string
	Restrictions []string
}

// FieldError reports a declaration field that failed to decode and was
// treated as empty.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed %s declaration: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Extract parses each declaration field independently. A field that fails to
// decode yields an empty list and a *FieldError in errs; the other fields are
// unaffected.
func Extract(d Declarations) (p Profile, errs []error) {
	p.Goal = Goal(strings.ToLower(strings.TrimSpace(d.Goal)))

	var err error
	if p.Allergies, err = parseList(FieldAllergies, d.Allergies); err != nil {
		errs = append(errs, err)
	}
	if p.Conditions, err = parseList(FieldConditions, d.MedicalConditions); err != nil {
		errs = append(errs, err)
	}
	if p.Restrictions, err = parseList(FieldRestrictions, d.DietaryRestrictions); err != nil {
		errs = append(errs, err)
	}
	return p, errs
}

func parseList(field, raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &FieldError{Field: field, Err: err}
	}
	return normalizeList(items), nil
}

func normalizeList(items []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NewProfile builds a profile from already-decoded lists, normalizing them
// the same way Extract does.
func NewProfile(goal string, allergies, conditions, restrictions []string) Profile {
	return Profile{
		Goal:         Goal(strings.ToLower(strings.TrimSpace(goal))),
		Allergies:    normalizeList(allergies),
		Conditions:   normalizeList(conditions),
		Restrictions: normalizeList(restrictions),
	}
}

// EncodeList serializes a declaration list into its stored form.
func EncodeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(data)
}

// HasCondition reports whether c was declared.
func (p *Profile) HasCondition(c string) bool { return slices.Contains(p.Conditions, c) }

// HasRestriction reports whether r was declared.
func (p *Profile) HasRestriction(r string) bool { return slices.Contains(p.Restrictions, r) }
