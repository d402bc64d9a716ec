package recipedex

import (
	"context"
	"fmt"
	"time"
)

// PersonalizeService filters and ranks recipes for a user's health declarations.
type PersonalizeService struct {
	svc personalizeUseCase
	obs *observer
}

// Recommend drops recipes containing the user's allergens, exceeding a
// condition's guideline or conflicting with a restriction, then orders the
// rest by the user's goal.
func (s *PersonalizeService) Recommend(ctx context.Context, u User, limit int) (found []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("personalize.recommend", start, len(found), err) }()

	d, err := u.declarations()
	if err != nil {
		return nil, err
	}
	rs, err := s.svc.Recommend(ctx, d, limit)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return fromDomainList(rs), nil
}

// Annotate returns the warnings and benefits of one recipe for the user.
func (s *PersonalizeService) Annotate(ctx context.Context, id int64, u User) (_ Annotations, err error) {
	start := time.Now()
	defer func() { s.obs.observe("personalize.annotate", start, err) }()

	d, err := u.declarations()
	if err != nil {
		return Annotations{}, err
	}
	notes, err := s.svc.Annotate(ctx, id, d)
	if err != nil {
		return Annotations{}, fmt.Errorf("annotate recipe %d: %w", id, err)
	}
	return Annotations{Warnings: notes.Warnings, Benefits: notes.Benefits}, nil
}
