package model

import "time"

// Instructor represents a course author in the system
type Instructor struct {
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	AvatarURL        string    `db:"avatar_url" json:"avatar_url"`
	StripeAccountID  *string   `db:"stripe_account_id" json:"stripe_account_id,omitempty"`
	ChargesEnabled   bool      `db:"charges_enabled" json:"charges_enabled"`
	PayoutsEnabled   bool      `db:"payouts_enabled" json:"payouts_enabled"`
	DetailsSubmitted bool      `db:"details_submitted" json:"details_submitted"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// PayoutState summarizes an instructor's Stripe Connect onboarding.
type PayoutState string

const (
	// PayoutStateNone means no Stripe account has been created yet.
	PayoutStateNone PayoutState = "none"
	// PayoutStateIncomplete means an account exists but at least one of the
	// three capability flags is still off. The individual flags are kept on
	// the Instructor so callers can tell partial states apart; this summary
	// deliberately does not collapse them into "none".
	PayoutStateIncomplete PayoutState = "incomplete"
	// PayoutStateComplete means charges, payouts and details are all enabled.
	PayoutStateComplete PayoutState = "complete"
)

// PayoutState derives the onboarding summary from the three Stripe flags.
func (i *Instructor) PayoutState() PayoutState {
	if i.StripeAccountID == nil || *i.StripeAccountID == "" {
		return PayoutStateNone
	}
	if i.ChargesEnabled && i.PayoutsEnabled && i.DetailsSubmitted {
		return PayoutStateComplete
	}
	return PayoutStateIncomplete
}
