package model

import "time"

// ContentKind buckets uploaded or authored lecture material.
type ContentKind string

const (
	ContentKindVideo      ContentKind = "video"
	ContentKindDocument   ContentKind = "document"
	ContentKindImage      ContentKind = "image"
	ContentKindAudio      ContentKind = "audio"
	ContentKindArchive    ContentKind = "archive"
	ContentKindText       ContentKind = "text"
	ContentKindAssignment ContentKind = "assignment"
	ContentKindResource   ContentKind = "resource"
	ContentKindQuiz       ContentKind = "quiz"
)

// ContentStatus tracks an item from upload start to durable storage.
type ContentStatus string

const (
	ContentStatusUploading ContentStatus = "uploading"
	ContentStatusReady     ContentStatus = "ready"
)

// ContentItem represents a single artifact attached to a lecture. Binary
// kinds live in object storage under StoragePath; text-like kinds carry an
// inline payload instead.
type ContentItem struct {
	ID          string        `db:"id" json:"id"`
	LectureID   string        `db:"lecture_id" json:"lecture_id"`
	CourseID    string        `db:"course_id" json:"course_id"`
	Kind        ContentKind   `db:"kind" json:"kind"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description,omitempty"`
	StoragePath string        `db:"storage_path" json:"storage_path,omitempty"`
	Payload     string        `db:"payload" json:"payload,omitempty"`
	MIMEType    string        `db:"mime_type" json:"mime_type"`
	SizeBytes   int64         `db:"size_bytes" json:"size_bytes"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

const megabyte = 1 << 20

// maxUploadSizes caps direct uploads per content kind. Inline kinds (text,
// assignment, quiz) are not uploaded and have no cap here.
var maxUploadSizes = map[ContentKind]int64{
	ContentKindVideo:    500 * megabyte,
	ContentKindDocument: 50 * megabyte,
	ContentKindImage:    10 * megabyte,
	ContentKindAudio:    100 * megabyte,
	ContentKindArchive:  100 * megabyte,
	ContentKindResource: 50 * megabyte,
}

// allowedMIMETypes is the per-kind allow-list checked before any storage call.
var allowedMIMETypes = map[ContentKind][]string{
	ContentKindVideo:    {"video/mp4", "video/webm", "video/quicktime"},
	ContentKindDocument: {"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/plain"},
	ContentKindImage:    {"image/jpeg", "image/png", "image/gif", "image/webp"},
	ContentKindAudio:    {"audio/mpeg", "audio/wav", "audio/ogg"},
	ContentKindArchive:  {"application/zip", "application/x-tar", "application/gzip"},
	ContentKindResource: {"application/pdf", "application/zip", "text/plain", "image/jpeg", "image/png"},
}

// MaxUploadSize returns the size cap in bytes for a kind, or 0 if the kind
// does not accept direct uploads.
func MaxUploadSize(kind ContentKind) int64 {
	return maxUploadSizes[kind]
}

// IsUploadableKind reports whether a kind is backed by object storage.
func IsUploadableKind(kind ContentKind) bool {
	_, ok := maxUploadSizes[kind]
	return ok
}

// IsAllowedMIMEType reports whether mimeType is on the allow-list for kind.
func IsAllowedMIMEType(kind ContentKind, mimeType string) bool {
	for _, allowed := range allowedMIMETypes[kind] {
		if allowed == mimeType {
			return true
		}
	}
	return false
}
