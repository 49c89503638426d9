package draft

import (
	"context"
	"errors"
	"time"

	"app/internal/model"
)

// ErrDraftNotFound is returned by Persistence.LoadDraft when the instructor
// has no stored draft. The store treats it as an expected first-visit state,
// not a failure.
var ErrDraftNotFound = errors.New("draft not found")

// Snapshot is the stored form of a draft returned by Persistence.LoadDraft.
type Snapshot struct {
	Course      model.Course
	CurrentStep int
	DraftID     string
	LastSaved   time.Time
}

// Persistence is the storage boundary the store saves and submits through.
// It is scoped to a single instructor; the store never sees user ids or
// transport details.
type Persistence interface {
	// SaveDraft stores the draft and returns its id.
	SaveDraft(ctx context.Context, course *model.Course, currentStep, progress int) (string, error)
	// LoadDraft returns the stored draft, or ErrDraftNotFound.
	LoadDraft(ctx context.Context) (*Snapshot, error)
	// SubmitCourse turns the draft into a real course and returns its id.
	SubmitCourse(ctx context.Context, course *model.Course) (string, error)
	// PublishCourse makes a previously submitted course publicly available.
	PublishCourse(ctx context.Context, courseID string) error
	// DeleteDraft removes the stored draft. Best-effort; callers may ignore
	// the error.
	DeleteDraft(ctx context.Context) error
}
