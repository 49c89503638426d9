package draft

import (
	"strings"
	"unicode/utf8"

	"app/internal/model"
)

// Wizard step indices. The authoring flow is a fixed four-step wizard.
const (
	StepInformation = 0
	StepStructure   = 1
	StepContent     = 2
	StepSettings    = 3

	// StepCount is the number of wizard steps.
	StepCount = 4
)

// Error codes reported by ValidateStep. Errors block forward navigation and
// submission; warnings never block anything.
const (
	ErrCodeTitle       = "title"
	ErrCodeDescription = "description"
	ErrCodePricing     = "pricing"
)

// StepValidation is the outcome of validating a single wizard step.
type StepValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ContentSummary describes the uploaded/authored content attached to the
// draft, as known to the content service. The validator and progress
// calculator only need counts.
type ContentSummary struct {
	TotalItems     int                       `json:"total_items"`
	ItemsByKind    map[model.ContentKind]int `json:"items_by_kind,omitempty"`
	ReadyItems     int                       `json:"ready_items"`
	UploadingItems int                       `json:"uploading_items"`
}

// ValidateStep computes the validation result for one wizard step. Only the
// information step and the paid-pricing rule produce blocking errors; the
// structure and content steps are advisory so an author can save a partial
// draft at any point.
func ValidateStep(step int, course *model.Course, content ContentSummary) StepValidation {
	v := StepValidation{Errors: []string{}, Warnings: []string{}}

	switch step {
	case StepInformation:
		title := strings.TrimSpace(course.Title)
		if title == "" {
			v.Errors = append(v.Errors, ErrCodeTitle)
		} else if utf8.RuneCountInString(title) < 10 {
			v.Warnings = append(v.Warnings, "title is short; at least 10 characters is recommended")
		}
		if strings.TrimSpace(course.Description) == "" {
			v.Errors = append(v.Errors, ErrCodeDescription)
		}
		if strings.TrimSpace(course.Category) == "" {
			v.Warnings = append(v.Warnings, "selecting a category is recommended")
		}

	case StepStructure:
		if len(course.Sections) == 0 {
			v.Warnings = append(v.Warnings, "course has no sections yet")
		} else if course.TotalLectures() == 0 {
			v.Warnings = append(v.Warnings, "sections exist but contain no lectures")
		}

	case StepContent:
		if content.TotalItems == 0 {
			v.Warnings = append(v.Warnings, "no content has been uploaded yet")
		}

	case StepSettings:
		if course.Settings.Enrollment.Type == model.EnrollmentPaid && course.Price <= 0 {
			v.Errors = append(v.Errors, ErrCodePricing)
		}
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// ValidateAllSteps validates every wizard step against the current draft.
func ValidateAllSteps(course *model.Course, content ContentSummary) map[int]StepValidation {
	results := make(map[int]StepValidation, StepCount)
	for step := 0; step < StepCount; step++ {
		results[step] = ValidateStep(step, course, content)
	}
	return results
}
