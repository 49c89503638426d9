package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CourseStatus is the publication lifecycle of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

// LectureType tags what kind of content a lecture is built around.
type LectureType string

const (
	LectureTypeVideo      LectureType = "video"
	LectureTypeText       LectureType = "text"
	LectureTypeQuiz       LectureType = "quiz"
	LectureTypeAssignment LectureType = "assignment"
	LectureTypeResource   LectureType = "resource"
)

// LectureStatus is the authoring state of a single lecture.
type LectureStatus string

const (
	LectureStatusDraft LectureStatus = "draft"
	LectureStatusReady LectureStatus = "ready"
)

// Course represents a course being authored or published on the platform.
// An unsaved draft has an empty ID.
type Course struct {
	ID            string         `db:"id" json:"id,omitempty"`
	InstructorID  string         `db:"instructor_id" json:"instructor_id"`
	Title         string         `db:"title" json:"title"`
	Description   string         `db:"description" json:"description"`
	Category      string         `db:"category" json:"category"`
	Level         string         `db:"level" json:"level"` // e.g. "beginner", "intermediate", "advanced"
	Price         float64        `db:"price" json:"price"`
	ThumbnailURL  string         `db:"thumbnail_url" json:"thumbnail_url"`
	Objectives    StringList     `db:"objectives" json:"objectives"`
	Prerequisites StringList     `db:"prerequisites" json:"prerequisites"`
	Sections      SectionList    `db:"sections" json:"sections"`
	Settings      CourseSettings `db:"settings" json:"settings"`
	Status        CourseStatus   `db:"status" json:"status"`
	PublishedAt   *time.Time     `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Section is an ordered group of lectures within a course.
type Section struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Lectures []Lecture `json:"lectures"`
}

// Lecture is a single unit of course material inside a section.
type Lecture struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Type            LectureType   `json:"type"`
	DurationMinutes int           `json:"duration_minutes"`
	Description     string        `json:"description,omitempty"`
	Status          LectureStatus `json:"status"`
}

// TotalLectures counts lectures across all sections.
func (c *Course) TotalLectures() int {
	total := 0
	for _, section := range c.Sections {
		total += len(section.Lectures)
	}
	return total
}

// StringList is a slice of strings stored as a JSONB column.
type StringList []string

// Value implements the driver.Valuer interface for JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for JSONB
func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l, "StringList")
}

// SectionList is the ordered section tree stored as a JSONB column.
type SectionList []Section

// Value implements the driver.Valuer interface for JSONB
func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for JSONB
func (l *SectionList) Scan(value interface{}) error {
	return scanJSON(value, l, "SectionList")
}

// scanJSON decodes a JSONB column value into dst. A nil or empty column
// leaves dst at its zero value.
func scanJSON(value interface{}, dst interface{}, typeName string) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, dst)
}
