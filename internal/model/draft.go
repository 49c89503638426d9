package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CoursePayload is a full course stored as a JSONB draft payload.
type CoursePayload Course

// Value implements the driver.Valuer interface for JSONB
func (p CoursePayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for JSONB
func (p *CoursePayload) Scan(value interface{}) error {
	return scanJSON(value, p, "CoursePayload")
}

// CourseDraft is the persisted form of an in-progress course. One draft per
// instructor; the full course payload is stored as JSONB.
type CourseDraft struct {
	ID           string        `db:"id" json:"id"`
	InstructorID string        `db:"instructor_id" json:"instructor_id"`
	Payload      CoursePayload `db:"payload" json:"payload"`
	CurrentStep  int           `db:"current_step" json:"current_step"`
	Progress     int           `db:"progress" json:"progress"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
