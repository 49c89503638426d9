package draft

import (
	"context"
	"fmt"

	"app/internal/model"
)

// ReplaceState is the phase of a delete-then-create content replacement.
type ReplaceState string

const (
	ReplacePending  ReplaceState = "pending"
	ReplaceDeleting ReplaceState = "deleting"
	ReplaceCreating ReplaceState = "creating"
	ReplaceDone     ReplaceState = "done"
	ReplaceFailed   ReplaceState = "failed"
)

// ContentReplacer is the content-service boundary a Replacement drives.
type ContentReplacer interface {
	DeleteContent(ctx context.Context, itemID string) error
	CreateContent(ctx context.Context, item model.ContentItem) (*model.ContentItem, error)
}

// Replacement is the two-phase machine behind the replace-on-conflict upload
// flow: a lecture holds at most one primary item per content kind, so
// uploading a conflicting item deletes the old one first, then creates the
// new one. Making the phases explicit keeps the half-done case (old item
// deleted, new item never created) representable instead of silently lost.
type Replacement struct {
	state       ReplaceState
	failedPhase ReplaceState
	existingID  string
	item        model.ContentItem
	created     *model.ContentItem
	err         error
}

// NewReplacement prepares a replacement of the existing item by a new one.
func NewReplacement(existingID string, item model.ContentItem) *Replacement {
	return &Replacement{
		state:      ReplacePending,
		existingID: existingID,
		item:       item,
	}
}

// Run drives the machine to completion. It may only be called once; a
// finished or failed replacement is not rerunnable.
func (r *Replacement) Run(ctx context.Context, svc ContentReplacer) error {
	if r.state != ReplacePending {
		return fmt.Errorf("replacement already ran (state %s)", r.state)
	}

	r.state = ReplaceDeleting
	if err := svc.DeleteContent(ctx, r.existingID); err != nil {
		r.fail(ReplaceDeleting, err)
		return fmt.Errorf("deleting existing content %s: %w", r.existingID, err)
	}

	r.state = ReplaceCreating
	created, err := svc.CreateContent(ctx, r.item)
	if err != nil {
		r.fail(ReplaceCreating, err)
		return fmt.Errorf("creating replacement content: %w", err)
	}

	r.created = created
	r.state = ReplaceDone
	return nil
}

func (r *Replacement) fail(phase ReplaceState, err error) {
	r.state = ReplaceFailed
	r.failedPhase = phase
	r.err = err
}

// State returns the current phase.
func (r *Replacement) State() ReplaceState {
	return r.state
}

// FailedPhase returns which phase failed, or "" if none has.
func (r *Replacement) FailedPhase() ReplaceState {
	return r.failedPhase
}

// Created returns the new item once the machine reaches ReplaceDone.
func (r *Replacement) Created() *model.ContentItem {
	return r.created
}

// Err returns the failure cause, nil unless state is ReplaceFailed.
func (r *Replacement) Err() error {
	return r.err
}

// Orphaned reports whether the old item was deleted but no replacement was
// created, the one outcome callers must surface for manual recovery.
func (r *Replacement) Orphaned() bool {
	return r.state == ReplaceFailed && r.failedPhase == ReplaceCreating
}
