package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// InstructorRepository defines the interface for instructor profile data.
type InstructorRepository interface {
	GetInstructorByID(ctx context.Context, userID string) (*model.Instructor, error)
	GetInstructorByStripeAccountID(ctx context.Context, accountID string) (*model.Instructor, error)
	CreateInstructor(ctx context.Context, i *model.Instructor) error
	UpdateStripeAccountID(ctx context.Context, userID, accountID string) error
	// UpdateStripeCapabilities stores the three Connect capability flags.
	// They are kept as separate columns so partial onboarding states remain
	// distinguishable.
	UpdateStripeCapabilities(ctx context.Context, userID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error
}

type instructorRepo struct {
	db *sql.DB
}

// NewInstructorRepo creates a new InstructorRepository
func NewInstructorRepo(db *sql.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

const instructorColumns = `user_id, name, email, avatar_url, stripe_account_id,
	charges_enabled, payouts_enabled, details_submitted, created_at, updated_at`

func scanInstructor(row *sql.Row, i *model.Instructor) error {
	return row.Scan(
		&i.UserID,
		&i.Name,
		&i.Email,
		&i.AvatarURL,
		&i.StripeAccountID,
		&i.ChargesEnabled,
		&i.PayoutsEnabled,
		&i.DetailsSubmitted,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

func (r *instructorRepo) GetInstructorByID(ctx context.Context, userID string) (*model.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE user_id = $1`
	var i model.Instructor
	err := scanInstructor(r.db.QueryRowContext(ctx, query, userID), &i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting instructor %s: %w", userID, err)
	}
	return &i, nil
}

func (r *instructorRepo) GetInstructorByStripeAccountID(ctx context.Context, accountID string) (*model.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE stripe_account_id = $1`
	var i model.Instructor
	err := scanInstructor(r.db.QueryRowContext(ctx, query, accountID), &i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting instructor by stripe account %s: %w", accountID, err)
	}
	return &i, nil
}

func (r *instructorRepo) CreateInstructor(ctx context.Context, i *model.Instructor) error {
	query := `
		INSERT INTO instructors (user_id, name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + instructorColumns
	row := r.db.QueryRowContext(ctx, query, i.UserID, i.Name, i.Email, i.AvatarURL)
	if err := scanInstructor(row, i); err != nil {
		return fmt.Errorf("creating instructor %s: %w", i.UserID, err)
	}
	return nil
}

func (r *instructorRepo) UpdateStripeAccountID(ctx context.Context, userID, accountID string) error {
	query := `
		UPDATE instructors
		SET stripe_account_id = $2, updated_at = now()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, accountID); err != nil {
		return fmt.Errorf("updating stripe account for instructor %s: %w", userID, err)
	}
	return nil
}

func (r *instructorRepo) UpdateStripeCapabilities(ctx context.Context, userID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	query := `
		UPDATE instructors
		SET charges_enabled = $2, payouts_enabled = $3, details_submitted = $4, updated_at = now()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, chargesEnabled, payoutsEnabled, detailsSubmitted); err != nil {
		return fmt.Errorf("updating stripe capabilities for instructor %s: %w", userID, err)
	}
	return nil
}
