package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/draft"
	"app/internal/model"
	"app/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContentService defines content-upload and authoring operations for lecture
// material.
type ContentService interface {
	// InitiateUpload validates the file locally, creates an uploading
	// content item and returns it with a presigned PUT URL.
	InitiateUpload(ctx context.Context, courseID, lectureID string, kind model.ContentKind, filename, mimeType string, sizeBytes int64) (*model.ContentItem, string, error)
	// CompleteUpload verifies the object landed in storage and marks the
	// item ready.
	CompleteUpload(ctx context.Context, itemID string) (*model.ContentItem, error)
	// CreateContent stores an inline (non-uploaded) content item directly.
	CreateContent(ctx context.Context, item model.ContentItem) (*model.ContentItem, error)
	DeleteContent(ctx context.Context, itemID string) error
	// ReplaceContent swaps a lecture's existing item for a new one via the
	// two-phase delete-then-create flow.
	ReplaceContent(ctx context.Context, existingID string, item model.ContentItem) (*model.ContentItem, error)
	// ReplaceUpload is ReplaceContent for uploaded kinds: it deletes the
	// existing item, creates the replacement in uploading state and returns
	// it with a presigned PUT URL.
	ReplaceUpload(ctx context.Context, existingID, courseID, lectureID string, kind model.ContentKind, filename, mimeType string, sizeBytes int64) (*model.ContentItem, string, error)
	// Summary returns the content counts for a course, consumed by the
	// draft engine's validation and progress calculations.
	Summary(ctx context.Context, courseID string) (draft.ContentSummary, error)
	GetPresignedURL(ctx context.Context, storagePath string) (string, error)
}

// ErrContentConflict is returned by InitiateUpload and CreateContent when the
// lecture already holds a primary item of the same kind. Callers resolve it
// with ReplaceContent after confirming with the author.
type ErrContentConflict struct {
	Existing *model.ContentItem
}

func (e *ErrContentConflict) Error() string {
	return fmt.Sprintf("lecture %s already has %s content (item %s)", e.Existing.LectureID, e.Existing.Kind, e.Existing.ID)
}

// contentService is the implementation of ContentService
type contentService struct {
	repo          repository.ContentRepository
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	contentLogger zerolog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(repo repository.ContentRepository, s3Client *s3.Client, bucketName string, logger zerolog.Logger) ContentService {
	return &contentService{
		repo:          repo,
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		contentLogger: logger.With().Str("service", "ContentService").Logger(),
	}
}

// ValidateUpload runs the local pre-checks: the kind must accept uploads, the
// size must be under the per-kind cap and the MIME type must be on the
// allow-list. Violations are rejected before any storage call.
func ValidateUpload(kind model.ContentKind, mimeType string, sizeBytes int64) error {
	if !model.IsUploadableKind(kind) {
		return fmt.Errorf("content kind %q does not accept file uploads", kind)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be positive, got %d", sizeBytes)
	}
	if max := model.MaxUploadSize(kind); sizeBytes > max {
		return fmt.Errorf("file too large for %s content: %d bytes (max %d)", kind, sizeBytes, max)
	}
	if !model.IsAllowedMIMEType(kind, mimeType) {
		return fmt.Errorf("mime type %q is not allowed for %s content", mimeType, kind)
	}
	return nil
}

// InitiateUpload creates a content item record and returns a presigned URL
// for the direct upload.
func (s *contentService) InitiateUpload(ctx context.Context, courseID, lectureID string, kind model.ContentKind, filename, mimeType string, sizeBytes int64) (*model.ContentItem, string, error) {
	if err := ValidateUpload(kind, mimeType, sizeBytes); err != nil {
		return nil, "", err
	}

	existing, err := s.repo.GetPrimaryContentItem(ctx, lectureID, kind)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("lecture_id", lectureID).Msg("Failed to check for conflicting content")
		return nil, "", fmt.Errorf("failed to check existing content: %w", err)
	}
	if existing != nil {
		return nil, "", &ErrContentConflict{Existing: existing}
	}

	itemID := uuid.NewString()
	item := &model.ContentItem{
		ID:          itemID,
		LectureID:   lectureID,
		CourseID:    courseID,
		Kind:        kind,
		Title:       filename, // Use filename as the initial title
		StoragePath: fmt.Sprintf("content/%s/%s/%s", courseID, lectureID, itemID),
		MIMEType:    mimeType,
		SizeBytes:   sizeBytes,
		Status:      model.ContentStatusUploading,
	}
	if err := s.repo.CreateContentItem(ctx, item); err != nil {
		s.contentLogger.Error().Err(err).Msg("Failed to create content item record for upload")
		return nil, "", fmt.Errorf("failed to create content item: %w", err)
	}

	presignedURL, err := s.getPresignedPutURL(ctx, item.StoragePath)
	if err != nil {
		// Attempt to clean up the created record on failure
		_ = s.repo.DeleteContentItem(ctx, item.ID)
		s.contentLogger.Error().Err(err).Str("item_id", item.ID).Msg("Failed to generate presigned PUT URL")
		return nil, "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return item, presignedURL, nil
}

// CompleteUpload finalizes the upload and marks the content item ready.
func (s *contentService) CompleteUpload(ctx context.Context, itemID string) (*model.ContentItem, error) {
	item, err := s.repo.GetContentItemByID(ctx, itemID)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("item_id", itemID).Msg("Failed to get content item for completion")
		return nil, fmt.Errorf("failed to retrieve content item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("content item not found")
	}

	// Verify the object exists in S3 before flipping the status.
	_, err = s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(item.StoragePath),
	})
	if err != nil {
		s.contentLogger.Error().Err(err).Str("storage_path", item.StoragePath).Msg("File not found in S3 at expected path")
		return nil, fmt.Errorf("file not found in storage: %w", err)
	}

	item.Status = model.ContentStatusReady
	if err := s.repo.UpdateContentItem(ctx, item); err != nil {
		s.contentLogger.Error().Err(err).Str("item_id", itemID).Msg("Failed to mark content item ready")
		return nil, fmt.Errorf("failed to update content item status: %w", err)
	}
	return item, nil
}

// CreateContent stores a non-uploaded item (text blocks, quizzes,
// assignments) directly as ready.
func (s *contentService) CreateContent(ctx context.Context, item model.ContentItem) (*model.ContentItem, error) {
	if model.IsUploadableKind(item.Kind) && item.StoragePath == "" {
		return nil, fmt.Errorf("content kind %q requires an upload, not inline creation", item.Kind)
	}

	existing, err := s.repo.GetPrimaryContentItem(ctx, item.LectureID, item.Kind)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("lecture_id", item.LectureID).Msg("Failed to check for conflicting content")
		return nil, fmt.Errorf("failed to check existing content: %w", err)
	}
	if existing != nil {
		return nil, &ErrContentConflict{Existing: existing}
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = model.ContentStatusReady
	}
	if err := s.repo.CreateContentItem(ctx, &item); err != nil {
		s.contentLogger.Error().Err(err).Str("lecture_id", item.LectureID).Msg("Failed to create content item")
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}
	return &item, nil
}

// DeleteContent removes a content item and its stored object.
func (s *contentService) DeleteContent(ctx context.Context, itemID string) error {
	item, err := s.repo.GetContentItemByID(ctx, itemID)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("item_id", itemID).Msg("Failed to get content item for deletion")
		return fmt.Errorf("failed to get content item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("content item not found")
	}

	if item.StoragePath != "" {
		if _, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(item.StoragePath),
		}); err != nil {
			s.contentLogger.Error().Err(err).Str("item_id", itemID).Msg("Failed to delete object from S3")
			// Not fatal; proceed to delete the DB record.
		}
	}

	if err := s.repo.DeleteContentItem(ctx, itemID); err != nil {
		s.contentLogger.Error().Err(err).Str("item_id", itemID).Msg("Failed to delete content item from database")
		return err
	}
	return nil
}

// ReplaceContent runs the explicit delete-then-create machine. When deletion
// succeeds but creation fails the orphaned outcome is logged and surfaced so
// the author can retry the creation alone.
func (s *contentService) ReplaceContent(ctx context.Context, existingID string, item model.ContentItem) (*model.ContentItem, error) {
	replacement := draft.NewReplacement(existingID, item)
	if err := replacement.Run(ctx, s); err != nil {
		if replacement.Orphaned() {
			s.contentLogger.Error().Err(err).
				Str("existing_id", existingID).
				Str("lecture_id", item.LectureID).
				Msg("Content replacement orphaned: old item deleted, new item not created")
		}
		return nil, err
	}
	return replacement.Created(), nil
}

// ReplaceUpload swaps an existing item for a new uploaded one. The
// replacement record is created in uploading state; the caller finishes it
// with CompleteUpload after the client PUT succeeds.
func (s *contentService) ReplaceUpload(ctx context.Context, existingID, courseID, lectureID string, kind model.ContentKind, filename, mimeType string, sizeBytes int64) (*model.ContentItem, string, error) {
	if err := ValidateUpload(kind, mimeType, sizeBytes); err != nil {
		return nil, "", err
	}

	itemID := uuid.NewString()
	item := model.ContentItem{
		ID:          itemID,
		LectureID:   lectureID,
		CourseID:    courseID,
		Kind:        kind,
		Title:       filename,
		StoragePath: fmt.Sprintf("content/%s/%s/%s", courseID, lectureID, itemID),
		MIMEType:    mimeType,
		SizeBytes:   sizeBytes,
		Status:      model.ContentStatusUploading,
	}

	created, err := s.ReplaceContent(ctx, existingID, item)
	if err != nil {
		return nil, "", err
	}

	presignedURL, err := s.getPresignedPutURL(ctx, created.StoragePath)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("item_id", created.ID).Msg("Failed to generate presigned PUT URL for replacement")
		return nil, "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return created, presignedURL, nil
}

// Summary returns the content counts for a course.
func (s *contentService) Summary(ctx context.Context, courseID string) (draft.ContentSummary, error) {
	byKind, byStatus, err := s.repo.CountContentByCourseID(ctx, courseID)
	if err != nil {
		s.contentLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to count content items")
		return draft.ContentSummary{}, err
	}
	summary := draft.ContentSummary{ItemsByKind: byKind}
	for _, count := range byKind {
		summary.TotalItems += count
	}
	summary.ReadyItems = byStatus[model.ContentStatusReady]
	summary.UploadingItems = byStatus[model.ContentStatusUploading]
	return summary, nil
}

// GetPresignedURL generates a signed URL for the given storage path
func (s *contentService) GetPresignedURL(ctx context.Context, storagePath string) (string, error) {
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storagePath),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.contentLogger.Error().Err(err).Str("storage_path", storagePath).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return resp.URL, nil
}

// getPresignedPutURL generates a presigned URL for uploading an object.
func (s *contentService) getPresignedPutURL(ctx context.Context, objectKey string) (string, error) {
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.contentLogger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to generate presigned PUT URL")
		return "", fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}
	return request.URL, nil
}
