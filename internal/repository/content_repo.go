package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// ContentRepository defines the interface for interacting with lecture
// content items.
type ContentRepository interface {
	CreateContentItem(ctx context.Context, item *model.ContentItem) error
	GetContentItemByID(ctx context.Context, itemID string) (*model.ContentItem, error)
	// GetPrimaryContentItem returns the single primary item a lecture holds
	// for a content kind, or nil when the slot is free.
	GetPrimaryContentItem(ctx context.Context, lectureID string, kind model.ContentKind) (*model.ContentItem, error)
	GetContentByCourseID(ctx context.Context, courseID string) ([]model.ContentItem, error)
	UpdateContentItem(ctx context.Context, item *model.ContentItem) error
	DeleteContentItem(ctx context.Context, itemID string) error
	// CountContentByCourseID returns total and per-kind/per-status counts.
	CountContentByCourseID(ctx context.Context, courseID string) (map[model.ContentKind]int, map[model.ContentStatus]int, error)
}

type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, lecture_id, course_id, kind, title, description,
	storage_path, payload, mime_type, size_bytes, status, created_at, updated_at`

func scanContentItem(scanner interface{ Scan(...interface{}) error }, item *model.ContentItem) error {
	return scanner.Scan(
		&item.ID,
		&item.LectureID,
		&item.CourseID,
		&item.Kind,
		&item.Title,
		&item.Description,
		&item.StoragePath,
		&item.Payload,
		&item.MIMEType,
		&item.SizeBytes,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func (r *contentRepository) CreateContentItem(ctx context.Context, item *model.ContentItem) error {
	query := `
		INSERT INTO content_items (id, lecture_id, course_id, kind, title, description,
			storage_path, payload, mime_type, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + contentColumns
	row := r.db.QueryRowContext(ctx, query,
		item.ID, item.LectureID, item.CourseID, item.Kind, item.Title, item.Description,
		item.StoragePath, item.Payload, item.MIMEType, item.SizeBytes, item.Status,
	)
	if err := scanContentItem(row, item); err != nil {
		return fmt.Errorf("creating content item: %w", err)
	}
	return nil
}

func (r *contentRepository) GetContentItemByID(ctx context.Context, itemID string) (*model.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`
	var item model.ContentItem
	err := scanContentItem(r.db.QueryRowContext(ctx, query, itemID), &item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting content item %s: %w", itemID, err)
	}
	return &item, nil
}

func (r *contentRepository) GetPrimaryContentItem(ctx context.Context, lectureID string, kind model.ContentKind) (*model.ContentItem, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content_items
		WHERE lecture_id = $1 AND kind = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	var item model.ContentItem
	err := scanContentItem(r.db.QueryRowContext(ctx, query, lectureID, kind), &item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting primary content for lecture %s kind %s: %w", lectureID, kind, err)
	}
	return &item, nil
}

func (r *contentRepository) GetContentByCourseID(ctx context.Context, courseID string) ([]model.ContentItem, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content_items
		WHERE course_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying content for course %s: %w", courseID, err)
	}
	defer rows.Close()

	var items []model.ContentItem
	for rows.Next() {
		var item model.ContentItem
		if err := scanContentItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning content row: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content rows: %w", err)
	}
	if len(items) == 0 {
		return []model.ContentItem{}, nil
	}
	return items, nil
}

func (r *contentRepository) UpdateContentItem(ctx context.Context, item *model.ContentItem) error {
	query := `
		UPDATE content_items
		SET title = $2, description = $3, storage_path = $4, payload = $5,
		    mime_type = $6, size_bytes = $7, status = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + contentColumns
	row := r.db.QueryRowContext(ctx, query,
		item.ID, item.Title, item.Description, item.StoragePath, item.Payload,
		item.MIMEType, item.SizeBytes, item.Status,
	)
	if err := scanContentItem(row, item); err != nil {
		return fmt.Errorf("updating content item %s: %w", item.ID, err)
	}
	return nil
}

func (r *contentRepository) DeleteContentItem(ctx context.Context, itemID string) error {
	query := `DELETE FROM content_items WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("deleting content item %s: %w", itemID, err)
	}
	return nil
}

func (r *contentRepository) CountContentByCourseID(ctx context.Context, courseID string) (map[model.ContentKind]int, map[model.ContentStatus]int, error) {
	query := `
		SELECT kind, status, COUNT(*)
		FROM content_items
		WHERE course_id = $1
		GROUP BY kind, status
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("counting content for course %s: %w", courseID, err)
	}
	defer rows.Close()

	byKind := make(map[model.ContentKind]int)
	byStatus := make(map[model.ContentStatus]int)
	for rows.Next() {
		var kind model.ContentKind
		var status model.ContentStatus
		var count int
		if err := rows.Scan(&kind, &status, &count); err != nil {
			return nil, nil, fmt.Errorf("scanning content count row: %w", err)
		}
		byKind[kind] += count
		byStatus[status] += count
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating content count rows: %w", err)
	}
	return byKind, byStatus, nil
}
