package service

import (
	"context"
	"sync"

	"app/internal/draft"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// DraftService persists per-instructor course drafts.
type DraftService interface {
	SaveDraft(ctx context.Context, instructorID string, course *model.Course, currentStep, progress int) (string, error)
	LoadDraft(ctx context.Context, instructorID string) (*model.CourseDraft, error)
	DeleteDraft(ctx context.Context, instructorID string) error
}

type draftService struct {
	repo        repository.DraftRepository
	draftLogger zerolog.Logger
}

// NewDraftService creates a new DraftService
func NewDraftService(repo repository.DraftRepository, logger zerolog.Logger) DraftService {
	return &draftService{
		repo:        repo,
		draftLogger: logger.With().Str("service", "DraftService").Logger(),
	}
}

func (s *draftService) SaveDraft(ctx context.Context, instructorID string, course *model.Course, currentStep, progress int) (string, error) {
	d := &model.CourseDraft{
		InstructorID: instructorID,
		Payload:      model.CoursePayload(*course),
		CurrentStep:  currentStep,
		Progress:     progress,
	}
	if err := s.repo.UpsertDraft(ctx, d); err != nil {
		s.draftLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to upsert draft")
		return "", err
	}
	return d.ID, nil
}

func (s *draftService) LoadDraft(ctx context.Context, instructorID string) (*model.CourseDraft, error) {
	d, err := s.repo.GetDraftByInstructorID(ctx, instructorID)
	if err != nil {
		s.draftLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to load draft")
		return nil, err
	}
	if d == nil {
		return nil, draft.ErrDraftNotFound
	}
	return d, nil
}

func (s *draftService) DeleteDraft(ctx context.Context, instructorID string) error {
	if err := s.repo.DeleteDraft(ctx, instructorID); err != nil {
		s.draftLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to delete draft")
		return err
	}
	return nil
}

// instructorPersistence binds the draft engine's persistence boundary to one
// instructor, delegating to the draft and course services.
type instructorPersistence struct {
	instructorID string
	drafts       DraftService
	courses      CourseService
}

// NewInstructorPersistence returns a draft.Persistence scoped to instructorID.
func NewInstructorPersistence(instructorID string, drafts DraftService, courses CourseService) draft.Persistence {
	return &instructorPersistence{
		instructorID: instructorID,
		drafts:       drafts,
		courses:      courses,
	}
}

func (p *instructorPersistence) SaveDraft(ctx context.Context, course *model.Course, currentStep, progress int) (string, error) {
	course.InstructorID = p.instructorID
	return p.drafts.SaveDraft(ctx, p.instructorID, course, currentStep, progress)
}

func (p *instructorPersistence) LoadDraft(ctx context.Context) (*draft.Snapshot, error) {
	d, err := p.drafts.LoadDraft(ctx, p.instructorID)
	if err != nil {
		return nil, err
	}
	return &draft.Snapshot{
		Course:      model.Course(d.Payload),
		CurrentStep: d.CurrentStep,
		DraftID:     d.ID,
		LastSaved:   d.UpdatedAt,
	}, nil
}

func (p *instructorPersistence) SubmitCourse(ctx context.Context, course *model.Course) (string, error) {
	course.InstructorID = p.instructorID
	created, err := p.courses.SubmitCourse(ctx, course)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (p *instructorPersistence) PublishCourse(ctx context.Context, courseID string) error {
	_, err := p.courses.PublishCourse(ctx, p.instructorID, courseID)
	return err
}

func (p *instructorPersistence) DeleteDraft(ctx context.Context) error {
	return p.drafts.DeleteDraft(ctx, p.instructorID)
}

// SessionManager hands out one draft store per instructor, creating it on
// first use. Stores live for the process lifetime; Discard drops one when an
// instructor resets to author a new course.
type SessionManager struct {
	mu      sync.Mutex
	stores  map[string]*draft.Store
	drafts  DraftService
	courses CourseService
	logger  zerolog.Logger
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(drafts DraftService, courses CourseService, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		stores:  make(map[string]*draft.Store),
		drafts:  drafts,
		courses: courses,
		logger:  logger.With().Str("service", "SessionManager").Logger(),
	}
}

// StoreFor returns the instructor's draft store, creating and wiring it on
// first access. New stores revalidate the active step on every course
// change, mirroring how the wizard UI reacts to edits.
func (m *SessionManager) StoreFor(instructorID string) *draft.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[instructorID]; ok {
		return s
	}
	persistence := NewInstructorPersistence(instructorID, m.drafts, m.courses)
	s := draft.NewStore(persistence, m.logger)
	s.Subscribe(func(reason draft.ChangeReason) {
		if reason != draft.ChangeCourse {
			return
		}
		course := s.Course()
		step := s.CurrentStep()
		s.SetStepValidation(step, draft.ValidateStep(step, &course, s.ContentSummary()))
	})
	m.stores[instructorID] = s
	return s
}

// Discard drops the instructor's store so the next access starts fresh.
func (m *SessionManager) Discard(instructorID string) {
	m.mu.Lock()
	delete(m.stores, instructorID)
	m.mu.Unlock()
}
