package filters

import "errors"

// Operator enumerates the predicate operators a criterion may use.
type Operator string

const (
	OpIsBlank        Operator = "is_blank"
	OpIsNotBlank     Operator = "is_not_blank"
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not_equals"
	OpStartsWith     Operator = "starts_with"
	OpNotStartsWith  Operator = "not_starts_with"
	OpEndsWith       Operator = "ends_with"
	OpNotEndsWith    Operator = "not_ends_with"
	OpContains       Operator = "contains"
	OpNotContains    Operator = "not_contains"
	OpGreaterThan    Operator = "greater_than"
	OpLessThan       Operator = "less_than"
	OpGreaterOrEqual Operator = "greater_or_equal"
	OpLessOrEqual    Operator = "less_or_equal"
	OpBetween        Operator = "between"
)

// Criterion is one field/operator/value predicate.
type Criterion struct {
	ID       string   `json:"id"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// CustomFilter is a saved, reusable AND-combination of criteria. A nil filter
// or one with no criteria matches every product.
type CustomFilter struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Criteria    []Criterion `json:"criteria"`
}

// ErrFilterNotFound indicates a missing saved filter.
var ErrFilterNotFound = errors.New("filters: filter not found")
