package dto

import (
	"time"

	"app/internal/model"
)

// UploadInitiateDTO requests a presigned upload slot for lecture content.
type UploadInitiateDTO struct {
	CourseID  string `json:"course_id" validate:"required"`
	LectureID string `json:"lecture_id" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	Filename  string `json:"filename" validate:"required"`
	MIMEType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
	// Replace, when true, swaps out a conflicting item of the same kind
	// instead of rejecting the upload.
	Replace bool `json:"replace,omitempty"`
}

// UploadCompleteDTO finalizes an upload after the client PUT succeeds.
type UploadCompleteDTO struct {
	ItemID string `json:"item_id" validate:"required"`
}

// ContentCreateDTO creates an inline (non-uploaded) content item.
type ContentCreateDTO struct {
	CourseID  string `json:"course_id" validate:"required"`
	LectureID string `json:"lecture_id" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=text assignment quiz"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body,omitempty"`
	Replace   bool   `json:"replace,omitempty"`
}

// ContentItemResponseDTO is returned in API responses for content items
type ContentItemResponseDTO struct {
	ID        string    `json:"id"`
	LectureID string    `json:"lecture_id"`
	CourseID  string    `json:"course_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	MIMEType  string    `json:"mime_type,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	Status    string    `json:"status"`
	UploadURL string    `json:"upload_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContentItemResponse maps a content item to its response DTO.
func NewContentItemResponse(item *model.ContentItem, uploadURL string) ContentItemResponseDTO {
	return ContentItemResponseDTO{
		ID:        item.ID,
		LectureID: item.LectureID,
		CourseID:  item.CourseID,
		Kind:      string(item.Kind),
		Title:     item.Title,
		MIMEType:  item.MIMEType,
		SizeBytes: item.SizeBytes,
		Status:    string(item.Status),
		UploadURL: uploadURL,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
