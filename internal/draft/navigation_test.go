package draft

import "testing"

func TestNavigateBackwardAlwaysAllowed(t *testing.T) {
	validations := map[int]StepValidation{
		0: {IsValid: false, Errors: []string{ErrCodeTitle}},
		1: {IsValid: false},
	}
	for step := 0; step < StepCount; step++ {
		if !CanNavigateTo(step, step, validations) {
			t.Fatalf("staying on step %d must be allowed", step)
		}
		if step > 0 && !CanNavigateTo(step-1, step, validations) {
			t.Fatalf("going back from step %d must be allowed", step)
		}
	}
}

func TestNavigateForwardRequiresValidCurrent(t *testing.T) {
	invalid := map[int]StepValidation{1: {IsValid: false, Errors: []string{ErrCodeTitle}}}
	if CanNavigateTo(2, 1, invalid) {
		t.Fatal("forward navigation must be blocked by an invalid current step")
	}

	valid := map[int]StepValidation{1: {IsValid: true}}
	if !CanNavigateTo(2, 1, valid) {
		t.Fatal("forward navigation must pass a valid current step")
	}
}

func TestNavigateForwardUnvalidatedStepPasses(t *testing.T) {
	// Only an explicit invalid result blocks; a step that was never
	// validated is passable.
	if !CanNavigateTo(1, 0, map[int]StepValidation{}) {
		t.Fatal("unvalidated current step must not block")
	}
	if !CanNavigateTo(1, 0, nil) {
		t.Fatal("nil validations must not block")
	}
}

func TestNavigateSkippingAheadNeverAllowed(t *testing.T) {
	allValid := map[int]StepValidation{
		0: {IsValid: true}, 1: {IsValid: true}, 2: {IsValid: true},
	}
	if CanNavigateTo(2, 0, allValid) {
		t.Fatal("jumping two steps ahead must be blocked even when all steps are valid")
	}
	if CanNavigateTo(3, 0, allValid) {
		t.Fatal("jumping three steps ahead must be blocked")
	}
}

func TestStepAllowedFlexibleBypassesGate(t *testing.T) {
	invalid := map[int]StepValidation{0: {IsValid: false, Errors: []string{ErrCodeTitle}}}

	if !StepAllowed(NavigationFlexible, 3, 0, invalid) {
		t.Fatal("flexible mode allows any jump")
	}
	if StepAllowed(NavigationStrict, 3, 0, invalid) {
		t.Fatal("strict mode defers to the gate")
	}
	if StepAllowed(NavigationStrict, 1, 0, invalid) {
		t.Fatal("strict mode blocks forward movement off an invalid step")
	}
}
