package dto

import (
	"time"

	"app/internal/draft"
	"app/internal/model"
)

// DraftStateDTO is the full wizard state returned after every draft operation.
type DraftStateDTO struct {
	DraftID         string                          `json:"draft_id,omitempty"`
	Course          model.Course                    `json:"course"`
	CurrentStep     int                             `json:"current_step"`
	Progress        int                             `json:"progress"`
	Validations     map[int]draft.StepValidation    `json:"validations"`
	GlobalErrors    []string                        `json:"global_errors"`
	GlobalWarnings  []string                        `json:"global_warnings"`
	Uploads         map[string]draft.UploadProgress `json:"uploads"`
	IsSaving        bool                            `json:"is_saving"`
	IsSubmitting    bool                            `json:"is_submitting"`
	IsLoading       bool                            `json:"is_loading"`
	HasUnsavedEdits bool                            `json:"has_unsaved_edits"`
	LastSaved       *time.Time                      `json:"last_saved,omitempty"`
}

// NewDraftState snapshots a store into its response DTO.
func NewDraftState(s *draft.Store) DraftStateDTO {
	return DraftStateDTO{
		DraftID:         s.DraftID(),
		Course:          s.Course(),
		CurrentStep:     s.CurrentStep(),
		Progress:        s.Progress(),
		Validations:     s.StepValidations(),
		GlobalErrors:    s.GlobalErrors(),
		GlobalWarnings:  s.GlobalWarnings(),
		Uploads:         s.Uploads(),
		IsSaving:        s.IsSaving(),
		IsSubmitting:    s.IsSubmitting(),
		IsLoading:       s.IsLoading(),
		HasUnsavedEdits: s.HasUnsavedChanges(),
		LastSaved:       s.LastSaved(),
	}
}

// DraftStepDTO requests a wizard step change.
type DraftStepDTO struct {
	TargetStep int    `json:"target_step" validate:"gte=0,lte=3"`
	Mode       string `json:"mode,omitempty" validate:"omitempty,oneof=strict flexible"`
}

// DraftUploadDTO reports client-side upload progress for a tracked file.
type DraftUploadDTO struct {
	FileID string            `json:"file_id" validate:"required"`
	Patch  draft.UploadPatch `json:"patch"`
}
