package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService defines course-related operations
type CourseService interface {
	// SubmitCourse turns a completed draft into a real course record
	SubmitCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// GetCourseByID retrieves a course by its ID
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCoursesByInstructorID(ctx context.Context, instructorID string) ([]model.Course, error)
	// UpdateCourse updates an existing course
	UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// PublishCourse makes a submitted course publicly available
	PublishCourse(ctx context.Context, instructorID, courseID string) (*model.Course, error)
	// DeleteCourse deletes a course by its ID
	DeleteCourse(ctx context.Context, instructorID, courseID string) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo         repository.CourseRepository
	publisher    pubsub.Publisher
	eventsTopic  string
	courseLogger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, publisher pubsub.Publisher, eventsTopic string, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:         repo,
		publisher:    publisher,
		eventsTopic:  eventsTopic,
		courseLogger: logger.With().Str("service", "CourseService").Logger(),
	}
}

// courseEvent is the payload published on submit and publish.
type courseEvent struct {
	Event        string    `json:"event"`
	CourseID     string    `json:"course_id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (s *courseService) publishEvent(ctx context.Context, event string, c *model.Course) {
	payload, err := json.Marshal(courseEvent{
		Event:        event,
		CourseID:     c.ID,
		InstructorID: c.InstructorID,
		Title:        c.Title,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		s.courseLogger.Error().Err(err).Str("event", event).Msg("Failed to marshal course event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.eventsTopic, payload); err != nil {
		// Events are informational; the course operation already succeeded.
		s.courseLogger.Warn().Err(err).Str("event", event).Str("course_id", c.ID).Msg("Failed to publish course event")
	}
}

// SubmitCourse creates the course record from a finished draft
func (s *courseService) SubmitCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := c.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course settings: %w", err)
	}
	c.Status = model.CourseStatusDraft
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		s.courseLogger.Error().Err(err).Str("instructor_id", c.InstructorID).Msg("Failed to create course")
		return nil, err
	}
	s.publishEvent(ctx, "course.submitted", c)
	return c, nil
}

// GetCourseByID retrieves a course by its ID. Returns nil, nil when no
// course exists, matching the repository convention.
func (s *courseService) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course by ID")
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetCoursesByInstructorID(ctx context.Context, instructorID string) ([]model.Course, error) {
	courses, err := s.repo.GetCoursesByInstructorID(ctx, instructorID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to list courses")
		return nil, err
	}
	return courses, nil
}

// UpdateCourse updates an existing course
func (s *courseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	existingCourse, err := s.repo.GetCourseByID(ctx, c.ID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", c.ID).Msg("Failed to get course by ID")
		return nil, err
	}
	if existingCourse == nil {
		return nil, fmt.Errorf("course with ID %s not found", c.ID)
	}
	if existingCourse.InstructorID != c.InstructorID {
		return nil, fmt.Errorf("instructor does not own course %s", c.ID)
	}
	if err := c.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course settings: %w", err)
	}
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", c.ID).Msg("Failed to update course")
		return nil, err
	}
	return c, nil
}

// PublishCourse flips a submitted course to published
func (s *courseService) PublishCourse(ctx context.Context, instructorID, courseID string) (*model.Course, error) {
	existingCourse, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course for publishing")
		return nil, err
	}
	if existingCourse == nil {
		return nil, fmt.Errorf("course with ID %s not found", courseID)
	}
	if existingCourse.InstructorID != instructorID {
		return nil, fmt.Errorf("instructor does not own course %s", courseID)
	}
	published, err := s.repo.PublishCourse(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to publish course")
		return nil, err
	}
	if published == nil {
		return nil, fmt.Errorf("course with ID %s not found", courseID)
	}
	s.publishEvent(ctx, "course.published", published)
	return published, nil
}

// DeleteCourse removes a course owned by the instructor
func (s *courseService) DeleteCourse(ctx context.Context, instructorID, courseID string) error {
	existingCourse, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course for deletion")
		return fmt.Errorf("failed to get course for deletion: %w", err)
	}
	if existingCourse == nil {
		return fmt.Errorf("course with ID %s not found", courseID)
	}
	if existingCourse.InstructorID != instructorID {
		return fmt.Errorf("instructor does not own course %s", courseID)
	}
	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course record")
		return err
	}
	return nil
}
