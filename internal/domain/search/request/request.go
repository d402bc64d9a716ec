package request

import "fmt"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
	// MaxTerms caps the ingredient terms of one ingredient query.
	MaxTerms = 32
)

// Limits controls result truncation.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits { return Limits{Default: DefaultLimit, Max: MaxLimit} }

// Validate checks that the limits are usable.
func (l Limits) Validate() error {
	if l.Default <= 0 {
		return fmt.Errorf("default limit must be positive")
	}
	if l.Max < l.Default {
		return fmt.Errorf("max limit %d is below default limit %d", l.Max, l.Default)
	}
	return nil
}

// Apply normalizes a requested limit: non-positive selects the default,
// anything above the maximum is clamped.
func (l Limits) Apply(n int) int {
	if n <= 0 {
		n = l.Default
	}
	if n > l.Max {
		n = l.Max
	}
	return n
}

// ValidateQuery rejects free-text queries that are too long. Blank queries
// are valid and resolve to no results.
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	return nil
}

// ValidateTerms rejects ingredient queries with too many terms.
func ValidateTerms(terms []string) error {
	if len(terms) > MaxTerms {
		return fmt.Errorf("too many ingredient terms (max %d)", MaxTerms)
	}
	return nil
}
