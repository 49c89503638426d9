package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// DraftRepository defines the interface for interacting with stored drafts.
// Each instructor has at most one draft.
type DraftRepository interface {
	GetDraftByInstructorID(ctx context.Context, instructorID string) (*model.CourseDraft, error)
	UpsertDraft(ctx context.Context, d *model.CourseDraft) error
	DeleteDraft(ctx context.Context, instructorID string) error
}

type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(db *sql.DB) DraftRepository {
	return &draftRepository{db: db}
}

// GetDraftByInstructorID returns the instructor's draft, or nil when none
// exists.
func (r *draftRepository) GetDraftByInstructorID(ctx context.Context, instructorID string) (*model.CourseDraft, error) {
	query := `
		SELECT id, instructor_id, payload, current_step, progress, created_at, updated_at
		FROM course_drafts
		WHERE instructor_id = $1
	`
	var d model.CourseDraft
	err := r.db.QueryRowContext(ctx, query, instructorID).Scan(
		&d.ID,
		&d.InstructorID,
		&d.Payload,
		&d.CurrentStep,
		&d.Progress,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting draft for instructor %s: %w", instructorID, err)
	}
	return &d, nil
}

// UpsertDraft inserts or replaces the instructor's single draft row and
// fills in the generated columns.
func (r *draftRepository) UpsertDraft(ctx context.Context, d *model.CourseDraft) error {
	query := `
		INSERT INTO course_drafts (instructor_id, payload, current_step, progress)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (instructor_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    current_step = EXCLUDED.current_step,
		    progress = EXCLUDED.progress,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, d.InstructorID, d.Payload, d.CurrentStep, d.Progress).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting draft for instructor %s: %w", d.InstructorID, err)
	}
	return nil
}

// DeleteDraft removes the instructor's draft. Deleting a non-existent draft
// is not an error.
func (r *draftRepository) DeleteDraft(ctx context.Context, instructorID string) error {
	query := `DELETE FROM course_drafts WHERE instructor_id = $1`
	if _, err := r.db.ExecContext(ctx, query, instructorID); err != nil {
		return fmt.Errorf("deleting draft for instructor %s: %w", instructorID, err)
	}
	return nil
}
