package dto

import "app/internal/model"

// InstructorResponseDTO is returned in API responses for instructors
type InstructorResponseDTO struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	AvatarURL        string `json:"avatar_url"`
	PayoutState      string `json:"payout_state"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

// NewInstructorResponse maps an instructor model to its response DTO.
func NewInstructorResponse(i *model.Instructor) InstructorResponseDTO {
	return InstructorResponseDTO{
		UserID:           i.UserID,
		Name:             i.Name,
		Email:            i.Email,
		AvatarURL:        i.AvatarURL,
		PayoutState:      string(i.PayoutState()),
		ChargesEnabled:   i.ChargesEnabled,
		PayoutsEnabled:   i.PayoutsEnabled,
		DetailsSubmitted: i.DetailsSubmitted,
	}
}

// OnboardingLinkDTO is returned when an instructor starts Stripe onboarding
type OnboardingLinkDTO struct {
	URL string `json:"url"`
}
