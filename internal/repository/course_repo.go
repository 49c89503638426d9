package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	GetCoursesByInstructorID(ctx context.Context, instructorID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a course by its ID
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	// UpdateCourse updates an existing course
	UpdateCourse(ctx context.Context, c *model.Course) error
	// PublishCourse flips a course to published and stamps the publish time
	PublishCourse(ctx context.Context, courseID string) (*model.Course, error)
	// DeleteCourse deletes a course by its ID
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, instructor_id, title, description, category, level, price,
	thumbnail_url, objectives, prerequisites, sections, settings, status,
	published_at, created_at, updated_at`

func scanCourse(row *sql.Row, c *model.Course) error {
	return row.Scan(
		&c.ID,
		&c.InstructorID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Level,
		&c.Price,
		&c.ThumbnailURL,
		&c.Objectives,
		&c.Prerequisites,
		&c.Sections,
		&c.Settings,
		&c.Status,
		&c.PublishedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// GetCoursesByInstructorID retrieves all courses owned by an instructor
func (r *courseRepo) GetCoursesByInstructorID(ctx context.Context, instructorID string) ([]model.Course, error) {
	query := `
		SELECT id, title, description, category, level, price, status, updated_at
		FROM courses
		WHERE instructor_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, instructorID)
	if err != nil {
		return nil, fmt.Errorf("querying courses for instructor %s: %w", instructorID, err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Category,
			&course.Level,
			&course.Price,
			&course.Status,
			&course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}

	return courses, nil
}

// CreateCourse inserts a new course and returns the created record
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (instructor_id, title, description, category, level, price,
			thumbnail_url, objectives, prerequisites, sections, settings, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + courseColumns
	row := r.db.QueryRowContext(ctx, query,
		c.InstructorID, c.Title, c.Description, c.Category, c.Level, c.Price,
		c.ThumbnailURL, c.Objectives, c.Prerequisites, c.Sections, c.Settings, c.Status,
	)
	if err := scanCourse(row, c); err != nil {
		return fmt.Errorf("creating course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var c model.Course
	err := scanCourse(r.db.QueryRowContext(ctx, query, courseID), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course by id %s: %w", courseID, err)
	}
	return &c, nil
}

// UpdateCourse updates an existing course
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, category = $4, level = $5, price = $6,
		    thumbnail_url = $7, objectives = $8, prerequisites = $9, sections = $10,
		    settings = $11, updated_at = now()
		WHERE id = $1
		RETURNING ` + courseColumns
	row := r.db.QueryRowContext(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Level, c.Price,
		c.ThumbnailURL, c.Objectives, c.Prerequisites, c.Sections, c.Settings,
	)
	if err := scanCourse(row, c); err != nil {
		return fmt.Errorf("updating course %s: %w", c.ID, err)
	}
	return nil
}

// PublishCourse flips the status to published and stamps published_at
func (r *courseRepo) PublishCourse(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		UPDATE courses
		SET status = $2, published_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING ` + courseColumns
	var c model.Course
	err := scanCourse(r.db.QueryRowContext(ctx, query, courseID, model.CourseStatusPublished), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("publishing course %s: %w", courseID, err)
	}
	return &c, nil
}

// DeleteCourse deletes a course by its ID
func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	query := `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("deleting course %s: %w", courseID, err)
	}
	return nil
}
