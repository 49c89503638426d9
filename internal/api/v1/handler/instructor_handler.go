package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"
)

// InstructorHandler handles instructor payout-onboarding endpoints
type InstructorHandler struct {
	instructorRepo repository.InstructorRepository
	stripeService  *service.StripeService
}

// NewInstructorHandler creates a new InstructorHandler
func NewInstructorHandler(instructorRepo repository.InstructorRepository, stripeService *service.StripeService) *InstructorHandler {
	return &InstructorHandler{instructorRepo: instructorRepo, stripeService: stripeService}
}

// RegisterRoutes mounts instructor routes
func (h *InstructorHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/instructors/me", authMw(http.HandlerFunc(h.getMe)))
	mux.Handle("/instructors/me/payouts/refresh", authMw(http.HandlerFunc(h.refreshPayoutStatus)))
	mux.Handle("/instructors/me/payouts/onboard", authMw(http.HandlerFunc(h.startOnboarding)))
}

func (h *InstructorHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	instructor := h.currentInstructor(w, r)
	if instructor == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewInstructorResponse(instructor))
}

// refreshPayoutStatus re-reads the capability flags from Stripe.
func (h *InstructorHandler) refreshPayoutStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	instructor := h.currentInstructor(w, r)
	if instructor == nil {
		return
	}
	refreshed, err := h.stripeService.RefreshAccountStatus(r.Context(), instructor)
	if err != nil {
		http.Error(w, "Failed to refresh payout status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.NewInstructorResponse(refreshed))
}

// startOnboarding returns the Stripe-hosted onboarding URL.
func (h *InstructorHandler) startOnboarding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	instructor := h.currentInstructor(w, r)
	if instructor == nil {
		return
	}
	url, err := h.stripeService.CreateOnboardingLink(r.Context(), instructor)
	if err != nil {
		http.Error(w, "Failed to create onboarding link: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.OnboardingLinkDTO{URL: url})
}

// currentInstructor loads the authenticated instructor, writing the error
// response itself when the lookup fails.
func (h *InstructorHandler) currentInstructor(w http.ResponseWriter, r *http.Request) *model.Instructor {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return nil
	}
	instructor, err := h.instructorRepo.GetInstructorByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve instructor: "+err.Error(), http.StatusInternalServerError)
		return nil
	}
	if instructor == nil {
		http.Error(w, "Instructor not found", http.StatusNotFound)
		return nil
	}
	return instructor
}
