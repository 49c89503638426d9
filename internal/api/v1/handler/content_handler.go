package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// ContentHandler handles lecture-content endpoints: direct uploads, inline
// items and replacement.
type ContentHandler struct {
	contentService service.ContentService
	courseService  service.CourseService
	validate       *validator.Validate
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, courseService service.CourseService, validate *validator.Validate) *ContentHandler {
	return &ContentHandler{contentService: contentService, courseService: courseService, validate: validate}
}

// RegisterRoutes mounts content routes
func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/content", authMw(http.HandlerFunc(h.createContent)))
	mux.Handle("/content/", authMw(http.HandlerFunc(h.handleContent)))
}

// ownsCourse verifies the authenticated user is the course's instructor.
func (h *ContentHandler) ownsCourse(w http.ResponseWriter, r *http.Request, userID, courseID string) bool {
	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to retrieve course: "+err.Error(), http.StatusInternalServerError)
		return false
	}
	if course == nil || course.InstructorID != userID {
		http.Error(w, "Course not found", http.StatusNotFound)
		return false
	}
	return true
}

// createContent stores an inline content item (text, assignment, quiz).
func (h *ContentHandler) createContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/content" {
		http.NotFound(w, r)
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.ContentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !h.ownsCourse(w, r, userID, req.CourseID) {
		return
	}
	item := model.ContentItem{
		LectureID: req.LectureID,
		CourseID:  req.CourseID,
		Kind:      model.ContentKind(req.Kind),
		Title:     req.Title,
		Payload:   req.Body,
	}
	created, err := h.contentService.CreateContent(r.Context(), item)
	if err != nil {
		var conflict *service.ErrContentConflict
		if errors.As(err, &conflict) {
			if !req.Replace {
				http.Error(w, conflict.Error(), http.StatusConflict)
				return
			}
			created, err = h.contentService.ReplaceContent(r.Context(), conflict.Existing.ID, item)
			if err != nil {
				http.Error(w, "Failed to replace content: "+err.Error(), http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Failed to create content: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.NewContentItemResponse(created, ""))
}

func (h *ContentHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/content/")
	switch {
	case rest == "uploads" && r.Method == http.MethodPost:
		h.initiateUpload(w, r, userID)
	case rest == "uploads/complete" && r.Method == http.MethodPost:
		h.completeUpload(w, r)
	case strings.HasPrefix(rest, "url/") && r.Method == http.MethodGet:
		h.getPresignedURL(w, r, strings.TrimPrefix(rest, "url/"))
	case r.Method == http.MethodDelete:
		h.deleteContent(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

// initiateUpload validates the file and returns a presigned PUT URL. A
// conflicting item of the same kind is replaced when the request asks for it,
// otherwise the conflict is surfaced to the client.
func (h *ContentHandler) initiateUpload(w http.ResponseWriter, r *http.Request, userID string) {
	var req dto.UploadInitiateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !h.ownsCourse(w, r, userID, req.CourseID) {
		return
	}
	kind := model.ContentKind(req.Kind)
	item, uploadURL, err := h.contentService.InitiateUpload(r.Context(), req.CourseID, req.LectureID, kind, req.Filename, req.MIMEType, req.SizeBytes)
	if err != nil {
		var conflict *service.ErrContentConflict
		if errors.As(err, &conflict) {
			if !req.Replace {
				http.Error(w, conflict.Error(), http.StatusConflict)
				return
			}
			item, uploadURL, err = h.contentService.ReplaceUpload(r.Context(), conflict.Existing.ID, req.CourseID, req.LectureID, kind, req.Filename, req.MIMEType, req.SizeBytes)
			if err != nil {
				http.Error(w, "Failed to replace content: "+err.Error(), http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Failed to initiate upload: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.NewContentItemResponse(item, uploadURL))
}

func (h *ContentHandler) completeUpload(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadCompleteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.contentService.CompleteUpload(r.Context(), req.ItemID)
	if err != nil {
		http.Error(w, "Failed to complete upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewContentItemResponse(item, ""))
}

func (h *ContentHandler) getPresignedURL(w http.ResponseWriter, r *http.Request, storagePath string) {
	url, err := h.contentService.GetPresignedURL(r.Context(), storagePath)
	if err != nil {
		http.Error(w, "Failed to generate URL: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

func (h *ContentHandler) deleteContent(w http.ResponseWriter, r *http.Request, itemID string) {
	if err := h.contentService.DeleteContent(r.Context(), itemID); err != nil {
		http.Error(w, "Failed to delete content: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
