package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/draft"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// DraftHandler exposes the course-authoring wizard over HTTP. All state lives
// in the instructor's draft store; every endpoint responds with the full
// wizard state so the client never has to merge partial updates.
type DraftHandler struct {
	sessions *service.SessionManager
	drafts   service.DraftService
	validate *validator.Validate
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(sessions *service.SessionManager, drafts service.DraftService, validate *validator.Validate) *DraftHandler {
	return &DraftHandler{sessions: sessions, drafts: drafts, validate: validate}
}

// RegisterRoutes mounts draft routes
func (h *DraftHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/drafts", authMw(http.HandlerFunc(h.handleDraft)))
	mux.Handle("/drafts/", authMw(http.HandlerFunc(h.handleDraftAction)))
}

func (h *DraftHandler) handleDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	store := h.sessions.StoreFor(userID)
	switch r.Method {
	case http.MethodGet:
		h.writeState(w, store, http.StatusOK)
	case http.MethodPatch:
		h.patchDraft(w, r, store)
	case http.MethodDelete:
		h.discardDraft(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

func (h *DraftHandler) handleDraftAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	store := h.sessions.StoreFor(userID)
	action := strings.TrimPrefix(r.URL.Path, "/drafts/")
	switch action {
	case "load":
		h.loadDraft(w, r, store)
	case "save":
		h.saveDraft(w, r, store)
	case "step":
		h.changeStep(w, r, store)
	case "submit":
		h.submitCourse(w, r, store)
	case "publish":
		h.publishCourse(w, r, store)
	case "uploads":
		h.trackUpload(w, r, store)
	default:
		http.NotFound(w, r)
	}
}

// patchDraft applies a partial course update to the draft.
func (h *DraftHandler) patchDraft(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	var patch draft.CoursePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	store.UpdateCourseData(patch)
	h.writeState(w, store, http.StatusOK)
}

func (h *DraftHandler) loadDraft(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	if err := store.LoadDraft(r.Context()); err != nil {
		h.writeEngineError(w, store, err)
		return
	}
	h.writeState(w, store, http.StatusOK)
}

func (h *DraftHandler) saveDraft(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	if err := store.SaveDraft(r.Context()); err != nil {
		h.writeEngineError(w, store, err)
		return
	}
	h.writeState(w, store, http.StatusOK)
}

// changeStep moves the wizard to another step, enforcing the navigation gate
// unless the request opts into flexible mode.
func (h *DraftHandler) changeStep(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	var req dto.DraftStepDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	mode := draft.NavigationStrict
	if req.Mode == string(draft.NavigationFlexible) {
		mode = draft.NavigationFlexible
	}

	current := store.CurrentStep()
	course := store.Course()
	store.SetStepValidation(current, draft.ValidateStep(current, &course, store.ContentSummary()))

	if !draft.StepAllowed(mode, req.TargetStep, current, store.StepValidations()) {
		http.Error(w, "Step not reachable from current position", http.StatusConflict)
		return
	}
	store.SetCurrentStep(req.TargetStep)
	h.writeState(w, store, http.StatusOK)
}

func (h *DraftHandler) submitCourse(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	if err := store.SubmitCourse(r.Context()); err != nil {
		h.writeEngineError(w, store, err)
		return
	}
	h.writeState(w, store, http.StatusCreated)
}

func (h *DraftHandler) publishCourse(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	if err := store.PublishCourse(r.Context()); err != nil {
		h.writeEngineError(w, store, err)
		return
	}
	h.writeState(w, store, http.StatusOK)
}

// trackUpload records client-reported progress for a tracked file upload.
func (h *DraftHandler) trackUpload(w http.ResponseWriter, r *http.Request, store *draft.Store) {
	var req dto.DraftUploadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	store.SetUploadProgress(req.FileID, req.Patch)
	h.writeState(w, store, http.StatusOK)
}

// discardDraft deletes the persisted draft and drops the instructor's
// session, so the next access starts from a fresh store.
func (h *DraftHandler) discardDraft(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.drafts.DeleteDraft(r.Context(), userID); err != nil {
		http.Error(w, "Failed to delete draft: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.sessions.Discard(userID)
	h.writeState(w, h.sessions.StoreFor(userID), http.StatusOK)
}

func (h *DraftHandler) writeState(w http.ResponseWriter, store *draft.Store, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewDraftState(store))
}

// writeEngineError maps engine sentinels to HTTP statuses. The store has
// already recorded a user-facing message for persistence failures, so the
// response carries the full state alongside the status code.
func (h *DraftHandler) writeEngineError(w http.ResponseWriter, store *draft.Store, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, draft.ErrOperationInFlight):
		status = http.StatusConflict
	case errors.Is(err, draft.ErrDraftInvalid):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, draft.ErrCourseNotSaved):
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewDraftState(store))
}
