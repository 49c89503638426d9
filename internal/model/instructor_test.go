package model

import "testing"

func TestPayoutState(t *testing.T) {
	acct := "acct_123"
	cases := []struct {
		name       string
		instructor Instructor
		want       PayoutState
	}{
		{"no account", Instructor{}, PayoutStateNone},
		{"empty account id", Instructor{StripeAccountID: strPtr("")}, PayoutStateNone},
		{"account only", Instructor{StripeAccountID: &acct}, PayoutStateIncomplete},
		{
			"details submitted, charges pending",
			Instructor{StripeAccountID: &acct, DetailsSubmitted: true},
			PayoutStateIncomplete,
		},
		{
			"charges without payouts",
			Instructor{StripeAccountID: &acct, ChargesEnabled: true, DetailsSubmitted: true},
			PayoutStateIncomplete,
		},
		{
			"fully onboarded",
			Instructor{StripeAccountID: &acct, ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true},
			PayoutStateComplete,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.instructor.PayoutState(); got != tc.want {
				t.Errorf("PayoutState() = %q, want %q", got, tc.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
