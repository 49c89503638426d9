package draft

import (
	"testing"

	"app/internal/model"
)

func hasMessage(messages []string, msg string) bool {
	for _, m := range messages {
		if m == msg {
			return true
		}
	}
	return false
}

func TestValidateInformationMissingTitle(t *testing.T) {
	course := &model.Course{Description: "Learn X"}
	v := ValidateStep(StepInformation, course, ContentSummary{})

	if v.IsValid {
		t.Fatal("expected step to be invalid with empty title")
	}
	if !hasMessage(v.Errors, ErrCodeTitle) {
		t.Fatalf("expected %q error, got %v", ErrCodeTitle, v.Errors)
	}
	if hasMessage(v.Errors, ErrCodeDescription) {
		t.Fatalf("description is set, should not error: %v", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", v.Warnings)
	}
}

func TestValidateInformationWhitespaceOnly(t *testing.T) {
	course := &model.Course{Title: "   ", Description: "\t\n"}
	v := ValidateStep(StepInformation, course, ContentSummary{})

	if v.IsValid {
		t.Fatal("whitespace-only fields must not pass")
	}
	if !hasMessage(v.Errors, ErrCodeTitle) || !hasMessage(v.Errors, ErrCodeDescription) {
		t.Fatalf("expected title and description errors, got %v", v.Errors)
	}
}

func TestValidateInformationCategoryWarning(t *testing.T) {
	course := &model.Course{
		Title:       "Intro to Cooking", // 16 chars, long enough
		Description: "A gentle introduction",
	}
	v := ValidateStep(StepInformation, course, ContentSummary{})

	if !v.IsValid {
		t.Fatalf("expected valid step, got errors %v", v.Errors)
	}
	if len(v.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", v.Errors)
	}
	if len(v.Warnings) == 0 {
		t.Fatal("expected a warning about the unset category")
	}
}

func TestValidateInformationShortTitleWarning(t *testing.T) {
	course := &model.Course{
		Title:       "Go 101", // under 10 chars
		Description: "Fundamentals of Go",
		Category:    "programming",
	}
	v := ValidateStep(StepInformation, course, ContentSummary{})

	if !v.IsValid {
		t.Fatalf("short title is a warning, not an error: %v", v.Errors)
	}
	if len(v.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", v.Warnings)
	}
}

func TestValidateInformationTitleLengthCountsRunes(t *testing.T) {
	// "Pâtisserie" is 10 characters but 11 bytes; byte counting would
	// wrongly flag it as short.
	course := &model.Course{
		Title:       "Pâtisserie",
		Description: "French baking from scratch",
		Category:    "cooking",
	}
	v := ValidateStep(StepInformation, course, ContentSummary{})
	if len(v.Warnings) != 0 {
		t.Fatalf("10-rune title must not warn, got %v", v.Warnings)
	}

	course.Title = "Gâteaux 9" // 9 runes
	v = ValidateStep(StepInformation, course, ContentSummary{})
	if len(v.Warnings) != 1 {
		t.Fatalf("expected exactly one warning for a 9-rune title, got %v", v.Warnings)
	}
}

func TestValidateStructureNeverBlocks(t *testing.T) {
	cases := []struct {
		name   string
		course model.Course
		warns  bool
	}{
		{"no sections", model.Course{}, true},
		{
			"sections without lectures",
			model.Course{Sections: model.SectionList{{ID: "s1", Title: "Basics"}}},
			true,
		},
		{
			"sections with lectures",
			model.Course{Sections: model.SectionList{{
				ID:       "s1",
				Title:    "Basics",
				Lectures: []model.Lecture{{ID: "l1", Title: "Hello", Type: model.LectureTypeVideo}},
			}}},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ValidateStep(StepStructure, &tc.course, ContentSummary{})
			if !v.IsValid {
				t.Fatal("structure step must never be blocking")
			}
			if len(v.Errors) != 0 {
				t.Fatalf("structure step must never report errors, got %v", v.Errors)
			}
			if tc.warns != (len(v.Warnings) > 0) {
				t.Fatalf("warnings mismatch: want warns=%v, got %v", tc.warns, v.Warnings)
			}
		})
	}
}

func TestValidateContentNeverBlocks(t *testing.T) {
	course := &model.Course{}

	v := ValidateStep(StepContent, course, ContentSummary{})
	if !v.IsValid || len(v.Errors) != 0 {
		t.Fatalf("content step must never be blocking: %+v", v)
	}
	if len(v.Warnings) == 0 {
		t.Fatal("expected a warning when no content exists")
	}

	v = ValidateStep(StepContent, course, ContentSummary{TotalItems: 3})
	if len(v.Warnings) != 0 {
		t.Fatalf("expected no warnings with content present, got %v", v.Warnings)
	}
}

func TestValidateSettingsPaidPricing(t *testing.T) {
	course := &model.Course{Settings: model.DefaultCourseSettings()}
	course.Settings.Enrollment.Type = model.EnrollmentPaid
	course.Price = 0

	v := ValidateStep(StepSettings, course, ContentSummary{})
	if v.IsValid {
		t.Fatal("paid course with price 0 must be invalid")
	}
	if !hasMessage(v.Errors, ErrCodePricing) {
		t.Fatalf("expected %q error, got %v", ErrCodePricing, v.Errors)
	}

	course.Price = 10
	v = ValidateStep(StepSettings, course, ContentSummary{})
	if !v.IsValid || len(v.Errors) != 0 {
		t.Fatalf("price 10 should clear the pricing error: %+v", v)
	}
}

func TestValidateSettingsFreeIgnoresPrice(t *testing.T) {
	course := &model.Course{Settings: model.DefaultCourseSettings()}
	course.Price = -5

	v := ValidateStep(StepSettings, course, ContentSummary{})
	if !v.IsValid {
		t.Fatalf("free enrollment never errors on price: %+v", v)
	}
}

func TestValidateAllStepsCoversEveryStep(t *testing.T) {
	course := &model.Course{}
	results := ValidateAllSteps(course, ContentSummary{})

	if len(results) != StepCount {
		t.Fatalf("expected %d results, got %d", StepCount, len(results))
	}
	if results[StepInformation].IsValid {
		t.Fatal("empty draft must fail the information step")
	}
	if !results[StepStructure].IsValid || !results[StepContent].IsValid {
		t.Fatal("structure and content steps are advisory only")
	}
}
