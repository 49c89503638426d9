package draft

// NavigationMode selects the wizard's step-jump policy.
type NavigationMode string

const (
	// NavigationStrict requires steps to be completed in order.
	NavigationStrict NavigationMode = "strict"
	// NavigationFlexible allows arbitrary step jumps.
	NavigationFlexible NavigationMode = "flexible"
)

// CanNavigateTo decides whether the wizard may move from currentStep to
// targetStep. Moving backward or staying put is always allowed. Moving one
// step forward is allowed unless the current step has been explicitly
// validated as invalid; a step that has not been validated yet passes.
// Jumping more than one step ahead is never allowed.
//
// The function is mode-independent: flexible mode bypasses the gate at the
// call site (see StepAllowed), it does not change these rules.
func CanNavigateTo(targetStep, currentStep int, validations map[int]StepValidation) bool {
	if targetStep <= currentStep {
		return true
	}
	if targetStep == currentStep+1 {
		v, ok := validations[currentStep]
		return !ok || v.IsValid
	}
	return false
}

// StepAllowed applies the navigation policy for a mode: flexible mode allows
// any jump, strict mode defers to CanNavigateTo.
func StepAllowed(mode NavigationMode, targetStep, currentStep int, validations map[int]StepValidation) bool {
	if mode == NavigationFlexible {
		return true
	}
	return CanNavigateTo(targetStep, currentStep, validations)
}
