package draft

import (
	"testing"

	"app/internal/model"
)

func completeCourse() model.Course {
	return model.Course{
		Title:        "Intro to Cooking",
		Description:  "Everything from knife skills to plating",
		Category:     "cooking",
		Level:        "beginner",
		ThumbnailURL: "https://cdn.example.com/thumb.png",
		Objectives:   model.StringList{"Hold a knife properly"},
		Sections: model.SectionList{{
			ID:       "s1",
			Title:    "Basics",
			Lectures: []model.Lecture{{ID: "l1", Title: "Knives", Type: model.LectureTypeVideo}},
		}},
		Settings: model.DefaultCourseSettings(),
	}
}

func TestProgressEmptyDraftIsZero(t *testing.T) {
	// A fully empty draft scores 0. Note the zero-valued enrollment type is
	// neither free nor paid, so the settings point is not awarded.
	course := model.Course{}
	if got := CalculateProgress(&course, ContentSummary{}); got != 0 {
		t.Fatalf("empty draft: expected 0, got %d", got)
	}
}

func TestProgressInformationOnly(t *testing.T) {
	course := model.Course{
		Title:       "Intro to Cooking",
		Description: "Everything from knife skills to plating",
		Category:    "cooking",
		Level:       "beginner",
	}
	// 4 of 11 points -> round(400/11) = 36.
	if got := CalculateProgress(&course, ContentSummary{}); got != 36 {
		t.Fatalf("expected 36, got %d", got)
	}
}

func TestProgressCompleteDraftIsHundred(t *testing.T) {
	course := completeCourse()
	if got := CalculateProgress(&course, ContentSummary{TotalItems: 1}); got != 100 {
		t.Fatalf("complete draft: expected 100, got %d", got)
	}
}

func TestProgressPaidNeedsPositivePrice(t *testing.T) {
	course := completeCourse()
	course.Settings.Enrollment.Type = model.EnrollmentPaid
	course.Price = 0

	withoutPrice := CalculateProgress(&course, ContentSummary{TotalItems: 1})
	course.Price = 49.99
	withPrice := CalculateProgress(&course, ContentSummary{TotalItems: 1})

	if withoutPrice >= withPrice {
		t.Fatalf("setting a valid price must raise progress: %d -> %d", withoutPrice, withPrice)
	}
	if withPrice != 100 {
		t.Fatalf("paid course with price: expected 100, got %d", withPrice)
	}
}

func TestProgressBlankObjectivesDoNotCount(t *testing.T) {
	course := completeCourse()
	base := CalculateProgress(&course, ContentSummary{TotalItems: 1})

	course.Objectives = model.StringList{"   ", ""}
	blanks := CalculateProgress(&course, ContentSummary{TotalItems: 1})

	if blanks >= base {
		t.Fatalf("blank objectives must not score: %d vs %d", blanks, base)
	}
}

// Filling in fields one at a time must never decrease the score.
func TestProgressMonotonic(t *testing.T) {
	course := model.Course{Settings: model.DefaultCourseSettings()}
	content := ContentSummary{}
	prev := CalculateProgress(&course, content)

	steps := []func(){
		func() { course.Title = "Intro to Cooking" },
		func() { course.Description = "A thorough course" },
		func() { course.Category = "cooking" },
		func() { course.Level = "beginner" },
		func() { course.Objectives = model.StringList{"Learn to cook"} },
		func() { course.ThumbnailURL = "https://cdn.example.com/t.png" },
		func() {
			course.Sections = model.SectionList{{ID: "s1", Title: "Basics"}}
		},
		func() {
			course.Sections[0].Lectures = []model.Lecture{{ID: "l1", Title: "Hello"}}
		},
		func() { content.TotalItems = 1 },
	}

	for i, step := range steps {
		step()
		got := CalculateProgress(&course, content)
		if got < prev {
			t.Fatalf("step %d decreased progress: %d -> %d", i, prev, got)
		}
		prev = got
	}
	if prev != 100 {
		t.Fatalf("after all steps expected 100, got %d", prev)
	}
}
