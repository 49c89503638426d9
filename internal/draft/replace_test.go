package draft

import (
	"context"
	"errors"
	"testing"

	"app/internal/model"
)

type fakeReplacer struct {
	deleteErr error
	createErr error

	deleted []string
	created []model.ContentItem
}

func (f *fakeReplacer) DeleteContent(ctx context.Context, itemID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, itemID)
	return nil
}

func (f *fakeReplacer) CreateContent(ctx context.Context, item model.ContentItem) (*model.ContentItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	item.ID = "new-1"
	item.Status = model.ContentStatusReady
	f.created = append(f.created, item)
	return &item, nil
}

func TestReplacementHappyPath(t *testing.T) {
	svc := &fakeReplacer{}
	r := NewReplacement("old-1", model.ContentItem{Kind: model.ContentKindVideo, Title: "v2"})

	if err := r.Run(context.Background(), svc); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if r.State() != ReplaceDone {
		t.Fatalf("expected done, got %s", r.State())
	}
	if r.Created() == nil || r.Created().ID != "new-1" {
		t.Fatalf("created item missing: %+v", r.Created())
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "old-1" {
		t.Fatalf("old item not deleted: %v", svc.deleted)
	}
	if r.Orphaned() {
		t.Fatal("successful replacement is not orphaned")
	}
}

func TestReplacementDeleteFailure(t *testing.T) {
	svc := &fakeReplacer{deleteErr: errors.New("storage down")}
	r := NewReplacement("old-1", model.ContentItem{Kind: model.ContentKindVideo})

	if err := r.Run(context.Background(), svc); err == nil {
		t.Fatal("expected delete failure")
	}
	if r.State() != ReplaceFailed || r.FailedPhase() != ReplaceDeleting {
		t.Fatalf("expected failed-in-deleting, got %s/%s", r.State(), r.FailedPhase())
	}
	if r.Orphaned() {
		t.Fatal("delete failure leaves the old item intact, not orphaned")
	}
	if len(svc.created) != 0 {
		t.Fatal("create must not run after delete failure")
	}
}

func TestReplacementCreateFailureIsOrphaned(t *testing.T) {
	svc := &fakeReplacer{createErr: errors.New("quota exceeded")}
	r := NewReplacement("old-1", model.ContentItem{Kind: model.ContentKindDocument})

	if err := r.Run(context.Background(), svc); err == nil {
		t.Fatal("expected create failure")
	}
	if r.FailedPhase() != ReplaceCreating {
		t.Fatalf("expected failed-in-creating, got %s", r.FailedPhase())
	}
	if !r.Orphaned() {
		t.Fatal("delete succeeded but create failed: must report orphaned")
	}
	if r.Err() == nil {
		t.Fatal("failure cause must be recorded")
	}
}

func TestReplacementNotRerunnable(t *testing.T) {
	svc := &fakeReplacer{}
	r := NewReplacement("old-1", model.ContentItem{Kind: model.ContentKindImage})

	if err := r.Run(context.Background(), svc); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := r.Run(context.Background(), svc); err == nil {
		t.Fatal("second run must be rejected")
	}
	if len(svc.deleted) != 1 {
		t.Fatalf("delete ran twice: %v", svc.deleted)
	}
}
