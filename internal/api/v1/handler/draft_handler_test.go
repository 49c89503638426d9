package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/draft"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type stubDraftService struct {
	deleted []string
}

func (s *stubDraftService) SaveDraft(_ context.Context, instructorID string, _ *model.Course, _, _ int) (string, error) {
	return "draft-1", nil
}

func (s *stubDraftService) LoadDraft(_ context.Context, _ string) (*model.CourseDraft, error) {
	return nil, draft.ErrDraftNotFound
}

func (s *stubDraftService) DeleteDraft(_ context.Context, instructorID string) error {
	s.deleted = append(s.deleted, instructorID)
	return nil
}

type stubCourseService struct{}

func (stubCourseService) SubmitCourse(_ context.Context, c *model.Course) (*model.Course, error) {
	return c, nil
}

func (stubCourseService) GetCourseByID(context.Context, string) (*model.Course, error) {
	return nil, nil
}

func (stubCourseService) GetCoursesByInstructorID(context.Context, string) ([]model.Course, error) {
	return nil, nil
}

func (stubCourseService) UpdateCourse(_ context.Context, c *model.Course) (*model.Course, error) {
	return c, nil
}

func (stubCourseService) PublishCourse(context.Context, string, string) (*model.Course, error) {
	return nil, nil
}

func (stubCourseService) DeleteCourse(context.Context, string, string) error {
	return nil
}

func TestDiscardDraftDropsSession(t *testing.T) {
	drafts := &stubDraftService{}
	sessions := service.NewSessionManager(drafts, stubCourseService{}, zerolog.Nop())
	h := NewDraftHandler(sessions, drafts, validator.New(validator.WithRequiredStructEnabled()))

	const instructorID = "instructor-1"
	dirty := sessions.StoreFor(instructorID)
	title := "Intro to Cooking"
	dirty.UpdateCourseData(draft.CoursePatch{Title: &title})

	req := httptest.NewRequest(http.MethodDelete, "/drafts", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, instructorID))
	rec := httptest.NewRecorder()
	h.handleDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(drafts.deleted) != 1 || drafts.deleted[0] != instructorID {
		t.Fatalf("expected one delete for %s, got %v", instructorID, drafts.deleted)
	}

	fresh := sessions.StoreFor(instructorID)
	if fresh == dirty {
		t.Fatal("discard must drop the session store")
	}
	if got := fresh.Course().Title; got != "" {
		t.Fatalf("fresh store must start empty, got title %q", got)
	}
}
