package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: validate}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/courses" {
		http.NotFound(w, r)
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	courses, err := h.courseService.GetCoursesByInstructorID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve courses: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.CourseResponseDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, dto.NewCourseResponse(&courses[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/courses/") {
		http.NotFound(w, r)
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/courses/")
	if courseID, found := strings.CutSuffix(rest, "/publish"); found {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.publishCourse(w, r, userID, courseID)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getCourse(w, r, userID, rest)
	case http.MethodPut:
		h.updateCourse(w, r, userID, rest)
	case http.MethodDelete:
		h.deleteCourse(w, r, userID, rest)
	default:
		http.NotFound(w, r)
	}
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, userID, courseID string) {
	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to retrieve course: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if course == nil || course.InstructorID != userID {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewCourseResponse(course))
}

func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request, userID, courseID string) {
	var req dto.CourseUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		http.Error(w, "Failed to retrieve course: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if course == nil || course.InstructorID != userID {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Objectives != nil {
		course.Objectives = *req.Objectives
	}
	if req.Prerequisites != nil {
		course.Prerequisites = *req.Prerequisites
	}
	if req.Sections != nil {
		course.Sections = *req.Sections
	}
	if req.Settings != nil {
		course.Settings = *req.Settings
	}
	updated, err := h.courseService.UpdateCourse(r.Context(), course)
	if err != nil {
		http.Error(w, "Failed to update course: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewCourseResponse(updated))
}

func (h *CourseHandler) publishCourse(w http.ResponseWriter, r *http.Request, userID, courseID string) {
	published, err := h.courseService.PublishCourse(r.Context(), userID, courseID)
	if err != nil {
		http.Error(w, "Failed to publish course: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if published == nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewCourseResponse(published))
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, userID, courseID string) {
	if err := h.courseService.DeleteCourse(r.Context(), userID, courseID); err != nil {
		http.Error(w, "Failed to delete course: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
