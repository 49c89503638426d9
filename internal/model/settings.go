package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Visibility controls who can discover a course.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// EnrollmentType distinguishes free and paid courses.
type EnrollmentType string

const (
	EnrollmentFree EnrollmentType = "free"
	EnrollmentPaid EnrollmentType = "paid"
)

// CourseSettings holds the per-course configuration edited in the settings
// step. Each concern is a typed sub-record so an invalid section/key
// combination is a compile error, not a silent nil lookup.
type CourseSettings struct {
	Visibility    VisibilitySettings    `json:"visibility"`
	Enrollment    EnrollmentSettings    `json:"enrollment"`
	SEO           SEOSettings           `json:"seo"`
	Accessibility AccessibilitySettings `json:"accessibility"`
	Pricing       PricingSettings       `json:"pricing"`
}

// VisibilitySettings controls course discoverability.
type VisibilitySettings struct {
	Mode         Visibility `json:"mode"`
	ShowInSearch bool       `json:"show_in_search"`
}

// EnrollmentSettings controls how students join the course.
type EnrollmentSettings struct {
	Type               EnrollmentType `json:"type"`
	MaxStudents        int            `json:"max_students"` // 0 means unlimited
	Language           string         `json:"language"`
	CertificateEnabled bool           `json:"certificate_enabled"`
}

// SEOSettings holds search-engine metadata for the public course page.
type SEOSettings struct {
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Keywords        StringList `json:"keywords"`
}

// AccessibilitySettings flags available accessibility aids.
type AccessibilitySettings struct {
	CaptionsAvailable    bool `json:"captions_available"`
	TranscriptsAvailable bool `json:"transcripts_available"`
	AudioDescriptions    bool `json:"audio_descriptions"`
}

// PricingSettings holds the paid-enrollment sub-fields.
type PricingSettings struct {
	Currency        string  `json:"currency"`
	DiscountPercent float64 `json:"discount_percent"`
	EarlyBird       bool    `json:"early_bird"`
}

// DefaultCourseSettings returns the settings a fresh draft starts with.
func DefaultCourseSettings() CourseSettings {
	return CourseSettings{
		Visibility: VisibilitySettings{Mode: VisibilityPrivate},
		Enrollment: EnrollmentSettings{Type: EnrollmentFree, Language: "en"},
		Pricing:    PricingSettings{Currency: "usd"},
	}
}

// Validate checks that all enum-valued fields carry known values.
func (s *CourseSettings) Validate() error {
	switch s.Visibility.Mode {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
	default:
		return fmt.Errorf("invalid visibility mode: %q", s.Visibility.Mode)
	}
	switch s.Enrollment.Type {
	case EnrollmentFree, EnrollmentPaid:
	default:
		return fmt.Errorf("invalid enrollment type: %q", s.Enrollment.Type)
	}
	if s.Enrollment.MaxStudents < 0 {
		return fmt.Errorf("max_students cannot be negative: %d", s.Enrollment.MaxStudents)
	}
	if s.Pricing.DiscountPercent < 0 || s.Pricing.DiscountPercent > 100 {
		return fmt.Errorf("discount_percent out of range: %v", s.Pricing.DiscountPercent)
	}
	return nil
}

// Value implements the driver.Valuer interface for JSONB
func (s CourseSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for JSONB
func (s *CourseSettings) Scan(value interface{}) error {
	return scanJSON(value, s, "CourseSettings")
}
