// Package attrs validates marketplace listing attributes against
// per-category schemas.
package attrs

import (
	"errors"
	"fmt"
	"strings"
)

// CategoryAttribute is one field a marketplace category expects on a listing.
type CategoryAttribute struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	IsRequired bool   `json:"is_required"`
}

// Report is the validity verdict for one schema attribute.
type Report struct {
	Key        string `json:"key"`
	IsRequired bool   `json:"is_required"`
	IsValid    bool   `json:"is_valid"`
	IsMissing  bool   `json:"is_missing"`
	Message    string `json:"message,omitempty"`
}

// ErrCategoryNotFound is returned when no schema exists for a category.
var ErrCategoryNotFound = errors.New("attrs: category not found")

// Validate checks stored values, shadowed by live form values, against the
// schema. A value counts as present only when non-empty after trimming, so
// an optional attribute left blank reports IsValid false while IsMissing
// stays false. Form state wins over persisted state so edits validate before
// they are saved.
func Validate(schema []CategoryAttribute, stored, live map[string]string) []Report {
	reports := make([]Report, 0, len(schema))
	for _, attr := range schema {
		value, ok := live[attr.Key]
		if !ok {
			value = stored[attr.Key]
		}
		present := strings.TrimSpace(value) != ""

		report := Report{
			Key:        attr.Key,
			IsRequired: attr.IsRequired,
			IsValid:    present,
			IsMissing:  attr.IsRequired && !present,
		}
		if report.IsMissing {
			label := attr.Label
			if label == "" {
				label = attr.Key
			}
			report.Message = fmt.Sprintf("%s is required", label)
		}
		reports = append(reports, report)
	}
	return reports
}
