package draft

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// fakePersistence is an in-memory Persistence for store tests.
type fakePersistence struct {
	mu sync.Mutex

	snapshot *Snapshot
	saveErr  error
	loadErr  error

	submitErr  error
	publishErr error
	deleteErr  error

	saveCalls    int
	submitCalls  int
	publishCalls int
	deleteCalls  int

	// blockSave, when set, stalls SaveDraft until the channel is closed.
	blockSave chan struct{}
}

func (f *fakePersistence) SaveDraft(ctx context.Context, course *model.Course, currentStep, progress int) (string, error) {
	if f.blockSave != nil {
		<-f.blockSave
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.snapshot = &Snapshot{
		Course:      *course,
		CurrentStep: currentStep,
		DraftID:     "draft-1",
		LastSaved:   time.Now(),
	}
	return "draft-1", nil
}

func (f *fakePersistence) LoadDraft(ctx context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.snapshot == nil {
		return nil, ErrDraftNotFound
	}
	snapshot := *f.snapshot
	return &snapshot, nil
}

func (f *fakePersistence) SubmitCourse(ctx context.Context, course *model.Course) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "course-1", nil
}

func (f *fakePersistence) PublishCourse(ctx context.Context, courseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishCalls++
	return f.publishErr
}

func (f *fakePersistence) DeleteDraft(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func newTestStore(p Persistence) *Store {
	return NewStore(p, zerolog.Nop())
}

func str(s string) *string            { return &s }
func intp(v int) *int                 { return &v }
func up(s UploadStatus) *UploadStatus { return &s }

func validPatch() CoursePatch {
	return CoursePatch{
		Title:       str("Intro to Cooking"),
		Description: str("Everything from knife skills to plating"),
		Category:    str("cooking"),
		Level:       str("beginner"),
	}
}

func TestUpdateCourseDataMarksUnsaved(t *testing.T) {
	s := newTestStore(&fakePersistence{})

	if s.HasUnsavedChanges() {
		t.Fatal("fresh store must start clean")
	}
	s.UpdateCourseData(CoursePatch{Title: str("Intro to Cooking")})

	if !s.HasUnsavedChanges() {
		t.Fatal("patch must mark the draft dirty")
	}
	if got := s.Course().Title; got != "Intro to Cooking" {
		t.Fatalf("title not merged: %q", got)
	}
	// Unset fields survive the merge.
	if got := s.Course().Settings.Enrollment.Type; got != model.EnrollmentFree {
		t.Fatalf("settings default lost: %q", got)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(&fakePersistence{})

	var mu sync.Mutex
	var seen []ChangeReason
	unsubscribe := s.Subscribe(func(reason ChangeReason) {
		mu.Lock()
		seen = append(seen, reason)
		mu.Unlock()
	})

	s.UpdateCourseData(CoursePatch{Title: str("A")})
	s.SetCurrentStep(1)

	mu.Lock()
	got := append([]ChangeReason{}, seen...)
	mu.Unlock()
	want := []ChangeReason{ChangeCourse, ChangeStep}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("notifications mismatch: got %v want %v", got, want)
	}

	unsubscribe()
	s.SetCurrentStep(2)
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("unsubscribed listener still notified: %v", seen)
	}
}

func TestGlobalMessagesDeduplicate(t *testing.T) {
	s := newTestStore(&fakePersistence{})

	s.AddGlobalError("network down")
	s.AddGlobalError("quota exceeded")
	s.AddGlobalError("network down") // moves to the end, no duplicate

	want := []string{"quota exceeded", "network down"}
	if got := s.GlobalErrors(); !reflect.DeepEqual(got, want) {
		t.Fatalf("errors mismatch: got %v want %v", got, want)
	}

	s.RemoveGlobalError("quota exceeded")
	if got := s.GlobalErrors(); !reflect.DeepEqual(got, []string{"network down"}) {
		t.Fatalf("remove failed: %v", got)
	}

	s.AddGlobalWarning("slow connection")
	s.ClearGlobalMessages()
	if len(s.GlobalErrors()) != 0 || len(s.GlobalWarnings()) != 0 {
		t.Fatal("clear must drop both lists")
	}
}

func TestUploadProgressMergeAndRemove(t *testing.T) {
	s := newTestStore(&fakePersistence{})

	s.SetUploadProgress("f1", UploadPatch{
		FileName: str("intro.mp4"),
		Status:   up(UploadStatusUploading),
		Progress: intp(10),
	})
	s.SetUploadProgress("f1", UploadPatch{Progress: intp(80)})

	entry := s.Uploads()["f1"]
	if entry.FileName != "intro.mp4" || entry.Progress != 80 || entry.Status != UploadStatusUploading {
		t.Fatalf("partial merge broken: %+v", entry)
	}

	s.RemoveUpload("f1")
	if len(s.Uploads()) != 0 {
		t.Fatal("upload entry not removed")
	}
}

func TestSaveDraftSuccess(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())

	if err := s.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if s.HasUnsavedChanges() {
		t.Fatal("successful save must clear the dirty flag")
	}
	if s.DraftID() != "draft-1" {
		t.Fatalf("draft id not recorded: %q", s.DraftID())
	}
	if s.LastSaved() == nil {
		t.Fatal("lastSaved not stamped")
	}
	if s.IsSaving() {
		t.Fatal("isSaving flag stuck")
	}
}

func TestSaveDraftFailureKeepsState(t *testing.T) {
	p := &fakePersistence{saveErr: errors.New("boom")}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())

	if err := s.SaveDraft(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if !s.HasUnsavedChanges() {
		t.Fatal("failed save must keep the dirty flag")
	}
	if s.DraftID() != "" {
		t.Fatal("failed save must not record a draft id")
	}
	if s.IsSaving() {
		t.Fatal("in-flight flag must be reset after failure")
	}
	if !hasMessage(s.GlobalErrors(), msgSaveFailed) {
		t.Fatalf("expected global error, got %v", s.GlobalErrors())
	}
}

func TestSaveDraftRejectsConcurrentCall(t *testing.T) {
	release := make(chan struct{})
	p := &fakePersistence{blockSave: release}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())

	done := make(chan error, 1)
	go func() { done <- s.SaveDraft(context.Background()) }()

	// Wait for the first save to take the in-flight flag.
	for !s.IsSaving() {
		time.Sleep(time.Millisecond)
	}
	if err := s.SaveDraft(context.Background()); !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("second save must be rejected, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if p.saveCalls != 1 {
		t.Fatalf("expected exactly one persistence call, got %d", p.saveCalls)
	}
}

func TestLoadDraftRoundTrip(t *testing.T) {
	p := &fakePersistence{}
	saver := newTestStore(p)
	saver.UpdateCourseData(validPatch())
	saver.UpdateCourseData(CoursePatch{
		Objectives: &[]string{"Hold a knife properly"},
		Sections: &[]model.Section{{
			ID:       "s1",
			Title:    "Basics",
			Lectures: []model.Lecture{{ID: "l1", Title: "Knives", Type: model.LectureTypeVideo}},
		}},
	})
	saver.SetCurrentStep(2)
	if err := saver.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loader := newTestStore(p)
	if err := loader.LoadDraft(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(loader.Course(), saver.Course()) {
		t.Fatalf("round-trip mismatch:\nsaved:  %+v\nloaded: %+v", saver.Course(), loader.Course())
	}
	if loader.CurrentStep() != 2 {
		t.Fatalf("current step not restored: %d", loader.CurrentStep())
	}
	if loader.DraftID() != "draft-1" {
		t.Fatalf("draft id not restored: %q", loader.DraftID())
	}
	if loader.HasUnsavedChanges() {
		t.Fatal("freshly loaded draft must be clean")
	}
}

func TestLoadDraftNotFoundIsSilent(t *testing.T) {
	s := newTestStore(&fakePersistence{})

	if err := s.LoadDraft(context.Background()); err != nil {
		t.Fatalf("missing draft is an expected state, got %v", err)
	}
	if len(s.GlobalErrors()) != 0 {
		t.Fatalf("no error may be surfaced for a missing draft: %v", s.GlobalErrors())
	}
	if s.IsLoading() {
		t.Fatal("loading flag stuck")
	}
}

func TestLoadDraftFailureSurfacesError(t *testing.T) {
	p := &fakePersistence{loadErr: errors.New("db down")}
	s := newTestStore(p)

	if err := s.LoadDraft(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if !hasMessage(s.GlobalErrors(), msgLoadFailed) {
		t.Fatalf("expected global error, got %v", s.GlobalErrors())
	}
}

func TestSubmitCourseFailFastOnInvalidDraft(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)
	// Empty title/description: information step invalid.

	if err := s.SubmitCourse(context.Background()); !errors.Is(err, ErrDraftInvalid) {
		t.Fatalf("expected ErrDraftInvalid, got %v", err)
	}
	if p.submitCalls != 0 {
		t.Fatal("no network call may be made for an invalid draft")
	}
	if !hasMessage(s.GlobalErrors(), msgSubmitBlocked) {
		t.Fatalf("expected global error, got %v", s.GlobalErrors())
	}
	if v := s.StepValidations()[StepInformation]; v.IsValid {
		t.Fatal("validation results must be published on failed submit")
	}
}

func TestSubmitCourseSuccess(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())
	if err := s.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := s.SubmitCourse(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if s.Course().ID != "course-1" {
		t.Fatalf("course id not recorded: %q", s.Course().ID)
	}
	if s.DraftID() != "" {
		t.Fatal("draft id must be cleared after submission")
	}
	if s.HasUnsavedChanges() {
		t.Fatal("dirty flag must be cleared after submission")
	}
	if p.deleteCalls != 1 {
		t.Fatal("stored draft must be deleted after submission")
	}
}

func TestSubmitCourseDraftDeleteFailureNotSurfaced(t *testing.T) {
	p := &fakePersistence{deleteErr: errors.New("gone already")}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())

	if err := s.SubmitCourse(context.Background()); err != nil {
		t.Fatalf("delete failure must not fail the submission: %v", err)
	}
	if len(s.GlobalErrors()) != 0 {
		t.Fatalf("delete failure must not be surfaced: %v", s.GlobalErrors())
	}
}

func TestPublishCourseRequiresID(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)

	if err := s.PublishCourse(context.Background()); !errors.Is(err, ErrCourseNotSaved) {
		t.Fatalf("expected ErrCourseNotSaved, got %v", err)
	}
	if p.publishCalls != 0 {
		t.Fatal("no call may be made without a course id")
	}
	if !hasMessage(s.GlobalErrors(), msgPublishUnsaved) {
		t.Fatalf("expected global error, got %v", s.GlobalErrors())
	}
}

func TestPublishCourseSuccess(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())
	if err := s.SubmitCourse(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := s.PublishCourse(context.Background()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	course := s.Course()
	if course.Status != model.CourseStatusPublished {
		t.Fatalf("status not flipped: %q", course.Status)
	}
	if course.PublishedAt == nil {
		t.Fatal("publish timestamp not stamped")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	p := &fakePersistence{}
	s := newTestStore(p)
	s.UpdateCourseData(validPatch())
	s.SetCurrentStep(3)
	s.AddGlobalError("x")
	s.SetUploadProgress("f1", UploadPatch{Progress: intp(50)})
	if err := s.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	s.Reset()

	if s.Course().Title != "" || s.CurrentStep() != 0 || s.DraftID() != "" {
		t.Fatal("reset must discard the draft")
	}
	if len(s.GlobalErrors()) != 0 || len(s.Uploads()) != 0 {
		t.Fatal("reset must clear messages and uploads")
	}
	if s.HasUnsavedChanges() || s.LastSaved() != nil {
		t.Fatal("reset must clear flags and timestamps")
	}
	if got := s.Course().Settings.Enrollment.Type; got != model.EnrollmentFree {
		t.Fatalf("reset must restore default settings, got %q", got)
	}
}

func TestProgressReflectsContentSummary(t *testing.T) {
	s := newTestStore(&fakePersistence{})
	s.UpdateCourseData(validPatch())

	before := s.Progress()
	s.SetContentSummary(ContentSummary{TotalItems: 2})
	after := s.Progress()

	if after <= before {
		t.Fatalf("content must raise progress: %d -> %d", before, after)
	}
}

func TestStoreExampleFlow(t *testing.T) {
	// End-to-end authoring pass: edit, validate, step through, save, submit,
	// publish.
	p := &fakePersistence{}
	s := newTestStore(p)

	s.UpdateCourseData(validPatch())
	results := s.ValidateAllSteps()
	for step := 0; step < StepCount; step++ {
		if !results[step].IsValid {
			t.Fatalf("step %d unexpectedly invalid: %+v", step, results[step])
		}
	}

	for step := 1; step < StepCount; step++ {
		if !CanNavigateTo(step, step-1, s.StepValidations()) {
			t.Fatalf("cannot advance to step %d", step)
		}
		s.SetCurrentStep(step)
	}

	if err := s.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SubmitCourse(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.PublishCourse(context.Background()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := s.Course().Status; got != model.CourseStatusPublished {
		t.Fatalf("expected published course, got %q", got)
	}
}
