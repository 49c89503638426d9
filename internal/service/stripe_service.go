package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	accountpkg "github.com/stripe/stripe-go/v82/account"
	accountlinkpkg "github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeService manages Stripe Connect onboarding for instructor payouts
type StripeService struct {
	cfg            *config.Config
	instructorRepo repository.InstructorRepository
	logger         zerolog.Logger
}

// NewStripeService initializes Stripe key and returns service with a scoped logger
func NewStripeService(cfg *config.Config, instructorRepo repository.InstructorRepository, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, instructorRepo: instructorRepo, logger: lg}
}

// EnsureAccount returns the instructor's connected account ID, creating an
// Express account when none exists yet.
func (s *StripeService) EnsureAccount(ctx context.Context, instructor *model.Instructor) (string, error) {
	if instructor.StripeAccountID != nil && *instructor.StripeAccountID != "" {
		return *instructor.StripeAccountID, nil
	}

	params := &stripe.AccountParams{
		Type:     stripe.String(string(stripe.AccountTypeExpress)),
		Email:    stripe.String(instructor.Email),
		Metadata: map[string]string{"user_id": instructor.UserID},
	}
	acct, err := accountpkg.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", instructor.UserID).Msg("Failed to create Stripe connected account")
		return "", fmt.Errorf("create stripe account: %w", err)
	}
	if err := s.instructorRepo.UpdateStripeAccountID(ctx, instructor.UserID, acct.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", instructor.UserID).Msg("Failed to store stripe account id")
		return "", fmt.Errorf("store stripe account id: %w", err)
	}
	return acct.ID, nil
}

// CreateOnboardingLink creates an account link the instructor follows to
// complete Stripe's hosted onboarding.
func (s *StripeService) CreateOnboardingLink(ctx context.Context, instructor *model.Instructor) (string, error) {
	accountID, err := s.EnsureAccount(ctx, instructor)
	if err != nil {
		return "", err
	}
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.cfg.StripeConnectRefreshURL),
		ReturnURL:  stripe.String(s.cfg.StripeConnectReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	link, err := accountlinkpkg.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to create Stripe account link")
		return "", fmt.Errorf("create account link: %w", err)
	}
	return link.URL, nil
}

// RefreshAccountStatus pulls the connected account from Stripe and stores the
// three capability flags. Each flag is persisted separately; an account with
// details submitted but charges still disabled stays distinguishable from one
// that never onboarded.
func (s *StripeService) RefreshAccountStatus(ctx context.Context, instructor *model.Instructor) (*model.Instructor, error) {
	if instructor.StripeAccountID == nil || *instructor.StripeAccountID == "" {
		return instructor, nil
	}
	acct, err := accountpkg.GetByID(*instructor.StripeAccountID, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", *instructor.StripeAccountID).Msg("Failed to fetch Stripe account")
		return nil, fmt.Errorf("fetch stripe account: %w", err)
	}
	if err := s.applyAccountFlags(ctx, instructor, acct); err != nil {
		return nil, err
	}
	return instructor, nil
}

func (s *StripeService) applyAccountFlags(ctx context.Context, instructor *model.Instructor, acct *stripe.Account) error {
	if err := s.instructorRepo.UpdateStripeCapabilities(ctx, instructor.UserID, acct.ChargesEnabled, acct.PayoutsEnabled, acct.DetailsSubmitted); err != nil {
		s.logger.Error().Err(err).Str("user_id", instructor.UserID).Msg("Failed to store stripe capability flags")
		return fmt.Errorf("store stripe capabilities: %w", err)
	}
	instructor.ChargesEnabled = acct.ChargesEnabled
	instructor.PayoutsEnabled = acct.PayoutsEnabled
	instructor.DetailsSubmitted = acct.DetailsSubmitted
	return nil
}

// HandleWebhook processes Stripe webhook events
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "account.updated":
		var acct stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
			s.logger.Error().Err(err).Msg("Invalid account.updated payload")
			http.Error(w, "invalid account data", http.StatusBadRequest)
			return
		}
		instructor, err := s.instructorRepo.GetInstructorByStripeAccountID(ctx, acct.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to look up instructor by Stripe account ID")
			http.Error(w, "failed to identify instructor", http.StatusInternalServerError)
			return
		}
		if instructor == nil {
			s.logger.Warn().Str("account_id", acct.ID).Msg("No instructor found for Stripe account, ignoring event")
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := s.applyAccountFlags(ctx, instructor, &acct); err != nil {
			http.Error(w, "failed to update instructor", http.StatusInternalServerError)
			return
		}
		s.logger.Info().
			Str("user_id", instructor.UserID).
			Bool("charges_enabled", acct.ChargesEnabled).
			Bool("payouts_enabled", acct.PayoutsEnabled).
			Bool("details_submitted", acct.DetailsSubmitted).
			Msg("Updated instructor payout capabilities from webhook")
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}
