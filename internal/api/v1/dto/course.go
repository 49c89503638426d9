package dto

import (
	"time"

	"app/internal/model"
)

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	ID            string               `json:"id"`
	InstructorID  string               `json:"instructor_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Level         string               `json:"level"`
	Price         float64              `json:"price"`
	ThumbnailURL  string               `json:"thumbnail_url"`
	Objectives    []string             `json:"objectives"`
	Prerequisites []string             `json:"prerequisites"`
	Sections      []model.Section      `json:"sections"`
	Settings      model.CourseSettings `json:"settings"`
	Status        string               `json:"status"`
	PublishedAt   *time.Time           `json:"published_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewCourseResponse maps a course model to its response DTO.
func NewCourseResponse(c *model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		ID:            c.ID,
		InstructorID:  c.InstructorID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Level:         c.Level,
		Price:         c.Price,
		ThumbnailURL:  c.ThumbnailURL,
		Objectives:    c.Objectives,
		Prerequisites: c.Prerequisites,
		Sections:      c.Sections,
		Settings:      c.Settings,
		Status:        string(c.Status),
		PublishedAt:   c.PublishedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CourseUpdateDTO is used for incoming course update requests
type CourseUpdateDTO struct {
	Title         *string               `json:"title,omitempty"`
	Description   *string               `json:"description,omitempty"`
	Category      *string               `json:"category,omitempty"`
	Level         *string               `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price         *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	ThumbnailURL  *string               `json:"thumbnail_url,omitempty"`
	Objectives    *[]string             `json:"objectives,omitempty"`
	Prerequisites *[]string             `json:"prerequisites,omitempty"`
	Sections      *[]model.Section      `json:"sections,omitempty"`
	Settings      *model.CourseSettings `json:"settings,omitempty"`
}
