package health

import (
	"errors"
	"slices"
	"testing"
)

func TestExtract_NormalizesEveryField(t *testing.T) {
	p, errs := Extract(Declarations{
		Goal:                " Lose ",
		Allergies:           `[" Dairy ", "TREE NUTS", "dairy"]`,
		MedicalConditions:   `["Diabetes"]`,
		DietaryRestrictions: `["Vegetarian", ""]`,
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if p.Goal != GoalLose {
		t.Errorf("Goal = %q", p.Goal)
	}
	if !slices.Equal(p.Allergies, []string{"dairy", "tree nuts"}) {
		t.Errorf("Allergies = %v", p.Allergies)
	}
	if !slices.Equal(p.Conditions, []string{"diabetes"}) {
		t.Errorf("Conditions = %v", p.Conditions)
	}
	if !slices.Equal(p.Restrictions, []string{"vegetarian"}) {
		t.Errorf("Restrictions = %v", p.Restrictions)
	}
}

func TestExtract_BadFieldIsIsolated(t *testing.T) {
	p, errs := Extract(Declarations{
		Allergies:           `["peanuts"]`,
		MedicalConditions:   `{not a list`,
		DietaryRestrictions: `["vegan"]`,
	})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	var fe *FieldError
	if !errors.As(errs[0], &fe) || fe.Field != FieldConditions {
		t.Errorf("expected FieldError for %s, got %v", FieldConditions, errs[0])
	}
	if len(p.Conditions) != 0 {
		t.Errorf("malformed field should be empty, got %v", p.Conditions)
	}
	if !slices.Equal(p.Allergies, []string{"peanuts"}) || !slices.Equal(p.Restrictions, []string{"vegan"}) {
		t.Errorf("other fields must survive: %+v", p)
	}
}

func TestExtract_EmptyDeclarations(t *testing.T) {
	p, errs := Extract(Declarations{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if p.Allergies != nil || p.Conditions != nil || p.Restrictions != nil {
		t.Errorf("expected empty profile, got %+v", p)
	}
}

func TestExtract_WrongElementType(t *testing.T) {
	_, errs := Extract(Declarations{Allergies: `[1, 2]`})
	if len(errs) != 1 {
		t.Errorf("expected one error for non-string list, got %v", errs)
	}
}

func TestNewProfile_MatchesExtract(t *testing.T) {
	want, _ := Extract(Declarations{
		Goal:      "gain",
		Allergies: EncodeList([]string{"Soy", " soy"}),
	})
	got := NewProfile("GAIN", []string{"Soy", " soy"}, nil, nil)
	if got.Goal != want.Goal || !slices.Equal(got.Allergies, want.Allergies) {
		t.Errorf("NewProfile = %+v, Extract = %+v", got, want)
	}
}

func TestEncodeList_Empty(t *testing.T) {
	if got := EncodeList(nil); got != "" {
		t.Errorf("EncodeList(nil) = %q", got)
	}
}
