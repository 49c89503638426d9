package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// Sentinel errors returned by the store's async operations. Every failure is
// also recorded as a global error message so observers see it; the store
// itself never panics across its public surface.
var (
	// ErrOperationInFlight rejects a second save/submit/publish/load while
	// one is already pending.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrDraftInvalid aborts submission when any step has blocking errors.
	ErrDraftInvalid = errors.New("draft has validation errors")
	// ErrCourseNotSaved rejects publishing a course that has no id yet.
	ErrCourseNotSaved = errors.New("course has not been saved")
)

// Global error messages surfaced to observers.
const (
	msgSaveFailed     = "failed to save draft"
	msgLoadFailed     = "failed to load draft"
	msgSubmitFailed   = "failed to submit course"
	msgSubmitBlocked  = "course has validation errors; fix them before submitting"
	msgPublishFailed  = "failed to publish course"
	msgPublishUnsaved = "course must be saved before it can be published"
)

// ChangeReason tells subscribers which part of the store mutated.
type ChangeReason string

const (
	ChangeCourse     ChangeReason = "course"
	ChangeStep       ChangeReason = "step"
	ChangeValidation ChangeReason = "validation"
	ChangeMessages   ChangeReason = "messages"
	ChangeUploads    ChangeReason = "uploads"
	ChangeFlags      ChangeReason = "flags"
	ChangeReset      ChangeReason = "reset"
)

// UploadStatus is the lifecycle of a tracked file upload.
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusComplete  UploadStatus = "complete"
	UploadStatusError     UploadStatus = "error"
)

// UploadProgress tracks one in-flight file upload, keyed by a
// client-generated file id.
type UploadProgress struct {
	Progress int          `json:"progress"` // 0-100
	Status   UploadStatus `json:"status"`
	FileName string       `json:"file_name"`
	FileSize int64        `json:"file_size"`
}

// UploadPatch is a partial update to an upload-progress entry. Nil fields are
// left unchanged.
type UploadPatch struct {
	Progress *int          `json:"progress,omitempty"`
	Status   *UploadStatus `json:"status,omitempty"`
	FileName *string       `json:"file_name,omitempty"`
	FileSize *int64        `json:"file_size,omitempty"`
}

// CoursePatch is a partial update to the draft. Nil fields are left
// unchanged; non-nil slice and settings fields replace the previous value
// wholesale.
type CoursePatch struct {
	Title         *string               `json:"title,omitempty"`
	Description   *string               `json:"description,omitempty"`
	Category      *string               `json:"category,omitempty"`
	Level         *string               `json:"level,omitempty"`
	Price         *float64              `json:"price,omitempty"`
	ThumbnailURL  *string               `json:"thumbnail_url,omitempty"`
	Objectives    *[]string             `json:"objectives,omitempty"`
	Prerequisites *[]string             `json:"prerequisites,omitempty"`
	Sections      *[]model.Section      `json:"sections,omitempty"`
	Settings      *model.CourseSettings `json:"settings,omitempty"`
}

// Store is the single source of truth for one instructor's in-progress
// course: the draft entity, wizard position, validation state, global
// messages, upload tracking and UI flags. All mutation goes through its
// methods; interested parties subscribe for change notifications instead of
// observing shared globals.
//
// Pure computation (ValidateStep, CalculateProgress, CanNavigateTo) lives in
// free functions; the store only orchestrates state and persistence.
type Store struct {
	mu          sync.RWMutex
	persistence Persistence
	logger      zerolog.Logger
	now         func() time.Time

	course      model.Course
	draftID     string
	currentStep int
	validations map[int]StepValidation
	content     ContentSummary

	globalErrors   []string
	globalWarnings []string
	uploads        map[string]UploadProgress

	isSaving          bool
	isSubmitting      bool
	isLoading         bool
	hasUnsavedChanges bool
	lastSaved         *time.Time

	subscribers map[int]func(ChangeReason)
	nextSubID   int
}

// NewStore creates a store for a fresh, empty draft.
func NewStore(p Persistence, logger zerolog.Logger) *Store {
	return &Store{
		persistence: p,
		logger:      logger.With().Str("component", "DraftStore").Logger(),
		now:         time.Now,
		course:      newEmptyCourse(),
		validations: make(map[int]StepValidation),
		uploads:     make(map[string]UploadProgress),
		subscribers: make(map[int]func(ChangeReason)),
	}
}

func newEmptyCourse() model.Course {
	return model.Course{
		Status:   model.CourseStatusDraft,
		Settings: model.DefaultCourseSettings(),
	}
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners are invoked after the mutation completes, outside the store's
// lock, so they may call back into the store.
func (s *Store) Subscribe(fn func(ChangeReason)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(reason ChangeReason) {
	s.mu.RLock()
	fns := make([]func(ChangeReason), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(reason)
	}
}

// UpdateCourseData merges a partial patch into the draft and marks it dirty.
// No validation runs here; callers revalidate on the change notification.
func (s *Store) UpdateCourseData(patch CoursePatch) {
	s.mu.Lock()
	if patch.Title != nil {
		s.course.Title = *patch.Title
	}
	if patch.Description != nil {
		s.course.Description = *patch.Description
	}
	if patch.Category != nil {
		s.course.Category = *patch.Category
	}
	if patch.Level != nil {
		s.course.Level = *patch.Level
	}
	if patch.Price != nil {
		s.course.Price = *patch.Price
	}
	if patch.ThumbnailURL != nil {
		s.course.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.Objectives != nil {
		s.course.Objectives = append(model.StringList{}, *patch.Objectives...)
	}
	if patch.Prerequisites != nil {
		s.course.Prerequisites = append(model.StringList{}, *patch.Prerequisites...)
	}
	if patch.Sections != nil {
		s.course.Sections = cloneSections(*patch.Sections)
	}
	if patch.Settings != nil {
		s.course.Settings = *patch.Settings
	}
	s.hasUnsavedChanges = true
	s.mu.Unlock()

	s.notify(ChangeCourse)
}

// SetCurrentStep moves the wizard unconditionally. Guarding against invalid
// jumps is the caller's job via StepAllowed.
func (s *Store) SetCurrentStep(step int) {
	s.mu.Lock()
	s.currentStep = step
	s.mu.Unlock()

	s.notify(ChangeStep)
}

// SetStepValidation publishes a computed validation result for a step.
func (s *Store) SetStepValidation(step int, v StepValidation) {
	s.mu.Lock()
	s.validations[step] = v
	s.mu.Unlock()

	s.notify(ChangeValidation)
}

// SetContentSummary records the latest known content counts, used by
// validation and progress.
func (s *Store) SetContentSummary(content ContentSummary) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()

	s.notify(ChangeCourse)
}

// AddGlobalError records a cross-step error message. Messages are
// deduplicated by text; re-adding an existing message moves it to the end.
func (s *Store) AddGlobalError(msg string) {
	s.mu.Lock()
	s.globalErrors = appendUnique(s.globalErrors, msg)
	s.mu.Unlock()

	s.notify(ChangeMessages)
}

// RemoveGlobalError dismisses a previously recorded error message.
func (s *Store) RemoveGlobalError(msg string) {
	s.mu.Lock()
	s.globalErrors = removeMessage(s.globalErrors, msg)
	s.mu.Unlock()

	s.notify(ChangeMessages)
}

// AddGlobalWarning records a cross-step warning, deduplicated like errors.
func (s *Store) AddGlobalWarning(msg string) {
	s.mu.Lock()
	s.globalWarnings = appendUnique(s.globalWarnings, msg)
	s.mu.Unlock()

	s.notify(ChangeMessages)
}

// RemoveGlobalWarning dismisses a previously recorded warning.
func (s *Store) RemoveGlobalWarning(msg string) {
	s.mu.Lock()
	s.globalWarnings = removeMessage(s.globalWarnings, msg)
	s.mu.Unlock()

	s.notify(ChangeMessages)
}

// ClearGlobalMessages drops all global errors and warnings.
func (s *Store) ClearGlobalMessages() {
	s.mu.Lock()
	s.globalErrors = nil
	s.globalWarnings = nil
	s.mu.Unlock()

	s.notify(ChangeMessages)
}

// SetUploadProgress merges a partial progress record for a file. A new file
// id creates the entry.
func (s *Store) SetUploadProgress(fileID string, patch UploadPatch) {
	s.mu.Lock()
	entry := s.uploads[fileID]
	if patch.Progress != nil {
		entry.Progress = *patch.Progress
	}
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	if patch.FileName != nil {
		entry.FileName = *patch.FileName
	}
	if patch.FileSize != nil {
		entry.FileSize = *patch.FileSize
	}
	s.uploads[fileID] = entry
	s.mu.Unlock()

	s.notify(ChangeUploads)
}

// RemoveUpload deletes a tracked upload entry.
func (s *Store) RemoveUpload(fileID string) {
	s.mu.Lock()
	delete(s.uploads, fileID)
	s.mu.Unlock()

	s.notify(ChangeUploads)
}

// ValidateAllSteps recomputes and stores validation for every step, then
// returns the results.
func (s *Store) ValidateAllSteps() map[int]StepValidation {
	s.mu.Lock()
	course := s.course
	content := s.content
	results := ValidateAllSteps(&course, content)
	for step, v := range results {
		s.validations[step] = v
	}
	s.mu.Unlock()

	s.notify(ChangeValidation)
	return results
}

// Progress returns the current completeness percentage.
func (s *Store) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course := s.course
	return CalculateProgress(&course, s.content)
}

// SaveDraft persists the current draft through the persistence boundary.
// A second call while one is pending is rejected with ErrOperationInFlight.
// On failure the draft is left untouched and a global error is recorded;
// there is no automatic retry.
func (s *Store) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.isSaving {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.isSaving = true
	course := cloneCourse(s.course)
	step := s.currentStep
	content := s.content
	s.mu.Unlock()
	s.notify(ChangeFlags)

	progress := CalculateProgress(&course, content)
	draftID, err := s.persistence.SaveDraft(ctx, &course, step, progress)

	s.mu.Lock()
	s.isSaving = false
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save draft")
		s.globalErrors = appendUnique(s.globalErrors, msgSaveFailed)
		s.mu.Unlock()
		s.notify(ChangeMessages)
		return err
	}
	s.draftID = draftID
	now := s.now()
	s.lastSaved = &now
	s.hasUnsavedChanges = false
	s.mu.Unlock()

	s.notify(ChangeFlags)
	return nil
}

// LoadDraft hydrates the store from persistence. A missing draft is an
// expected first-visit state and is silently ignored.
func (s *Store) LoadDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.isLoading = true
	s.mu.Unlock()
	s.notify(ChangeFlags)

	snapshot, err := s.persistence.LoadDraft(ctx)

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			s.mu.Unlock()
			s.notify(ChangeFlags)
			return nil
		}
		s.logger.Error().Err(err).Msg("Failed to load draft")
		s.globalErrors = appendUnique(s.globalErrors, msgLoadFailed)
		s.mu.Unlock()
		s.notify(ChangeMessages)
		return err
	}
	s.course = cloneCourse(snapshot.Course)
	s.currentStep = snapshot.CurrentStep
	s.draftID = snapshot.DraftID
	if !snapshot.LastSaved.IsZero() {
		saved := snapshot.LastSaved
		s.lastSaved = &saved
	}
	s.hasUnsavedChanges = false
	s.mu.Unlock()

	s.notify(ChangeCourse)
	return nil
}

// SubmitCourse validates every step and, only if all pass, submits the draft
// as a real course. No network call is made when validation fails. After a
// successful submission the now-redundant stored draft is deleted
// best-effort; a delete failure is logged, not surfaced.
func (s *Store) SubmitCourse(ctx context.Context) error {
	s.mu.Lock()
	if s.isSubmitting {
		s.mu.Unlock()
		return ErrOperationInFlight
	}

	course := cloneCourse(s.course)
	content := s.content
	results := ValidateAllSteps(&course, content)
	for step, v := range results {
		s.validations[step] = v
	}
	for step := 0; step < StepCount; step++ {
		if !results[step].IsValid {
			s.globalErrors = appendUnique(s.globalErrors, msgSubmitBlocked)
			s.mu.Unlock()
			s.notify(ChangeValidation)
			return ErrDraftInvalid
		}
	}
	s.isSubmitting = true
	s.mu.Unlock()
	s.notify(ChangeFlags)

	courseID, err := s.persistence.SubmitCourse(ctx, &course)

	s.mu.Lock()
	s.isSubmitting = false
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to submit course")
		s.globalErrors = appendUnique(s.globalErrors, msgSubmitFailed)
		s.mu.Unlock()
		s.notify(ChangeMessages)
		return err
	}
	s.course.ID = courseID
	s.draftID = ""
	s.hasUnsavedChanges = false
	now := s.now()
	s.lastSaved = &now
	s.mu.Unlock()
	s.notify(ChangeCourse)

	if err := s.persistence.DeleteDraft(ctx); err != nil {
		// The course exists; a leftover draft row is not user-facing.
		s.logger.Warn().Err(err).Msg("Failed to delete draft after submission")
	}
	return nil
}

// PublishCourse makes a submitted course public. Publishing before the
// course has an id is a caller error, surfaced the same way as a transient
// failure.
func (s *Store) PublishCourse(ctx context.Context) error {
	s.mu.Lock()
	if s.isSubmitting {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	courseID := s.course.ID
	if courseID == "" {
		s.globalErrors = appendUnique(s.globalErrors, msgPublishUnsaved)
		s.mu.Unlock()
		s.notify(ChangeMessages)
		return ErrCourseNotSaved
	}
	s.isSubmitting = true
	s.mu.Unlock()
	s.notify(ChangeFlags)

	err := s.persistence.PublishCourse(ctx, courseID)

	s.mu.Lock()
	s.isSubmitting = false
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to publish course")
		s.globalErrors = appendUnique(s.globalErrors, msgPublishFailed)
		s.mu.Unlock()
		s.notify(ChangeMessages)
		return err
	}
	s.course.Status = model.CourseStatusPublished
	now := s.now()
	s.course.PublishedAt = &now
	s.mu.Unlock()

	s.notify(ChangeCourse)
	return nil
}

// Reset restores all state to initial values, discarding the draft. Used
// when abandoning edit mode to author a new course.
func (s *Store) Reset() {
	s.mu.Lock()
	s.course = newEmptyCourse()
	s.draftID = ""
	s.currentStep = 0
	s.validations = make(map[int]StepValidation)
	s.content = ContentSummary{}
	s.globalErrors = nil
	s.globalWarnings = nil
	s.uploads = make(map[string]UploadProgress)
	s.isSaving = false
	s.isSubmitting = false
	s.isLoading = false
	s.hasUnsavedChanges = false
	s.lastSaved = nil
	s.mu.Unlock()

	s.notify(ChangeReset)
}

// Course returns a copy of the current draft.
func (s *Store) Course() model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCourse(s.course)
}

// CurrentStep returns the active wizard step index.
func (s *Store) CurrentStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStep
}

// DraftID returns the persisted draft id, empty if never saved.
func (s *Store) DraftID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draftID
}

// StepValidations returns a copy of all stored validation results.
func (s *Store) StepValidations() map[int]StepValidation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]StepValidation, len(s.validations))
	for step, v := range s.validations {
		out[step] = v
	}
	return out
}

// ContentSummary returns the last recorded content counts.
func (s *Store) ContentSummary() ContentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// GlobalErrors returns the current error messages, oldest first.
func (s *Store) GlobalErrors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.globalErrors...)
}

// GlobalWarnings returns the current warning messages, oldest first.
func (s *Store) GlobalWarnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.globalWarnings...)
}

// Uploads returns a copy of the tracked upload entries.
func (s *Store) Uploads() map[string]UploadProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]UploadProgress, len(s.uploads))
	for id, entry := range s.uploads {
		out[id] = entry
	}
	return out
}

// HasUnsavedChanges reports whether the draft changed since the last save.
func (s *Store) HasUnsavedChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasUnsavedChanges
}

// LastSaved returns the time of the last successful save, nil if never.
func (s *Store) LastSaved() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSaved == nil {
		return nil
	}
	saved := *s.lastSaved
	return &saved
}

// IsSaving reports whether a save is in flight.
func (s *Store) IsSaving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSaving
}

// IsSubmitting reports whether a submit or publish is in flight.
func (s *Store) IsSubmitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSubmitting
}

// IsLoading reports whether a load is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// appendUnique appends msg, first removing any identical entry so a repeated
// message moves to the end instead of duplicating.
func appendUnique(messages []string, msg string) []string {
	return append(removeMessage(messages, msg), msg)
}

func removeMessage(messages []string, msg string) []string {
	out := messages[:0]
	for _, m := range messages {
		if m != msg {
			out = append(out, m)
		}
	}
	return out
}

func cloneCourse(c model.Course) model.Course {
	out := c
	out.Objectives = append(model.StringList{}, c.Objectives...)
	out.Prerequisites = append(model.StringList{}, c.Prerequisites...)
	out.Sections = cloneSections(c.Sections)
	out.Settings.SEO.Keywords = append(model.StringList{}, c.Settings.SEO.Keywords...)
	if c.PublishedAt != nil {
		published := *c.PublishedAt
		out.PublishedAt = &published
	}
	return out
}

func cloneSections(sections []model.Section) model.SectionList {
	out := make(model.SectionList, len(sections))
	for i, section := range sections {
		out[i] = section
		out[i].Lectures = append([]model.Lecture{}, section.Lectures...)
	}
	return out
}
