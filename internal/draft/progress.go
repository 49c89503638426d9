package draft

import (
	"math"
	"strings"

	"app/internal/model"
)

// Point budget for the completeness score. The weighting is deliberately
// coarse: six information fields, two structure points, two content points
// awarded together, and one settings point.
const (
	informationPoints = 6
	structurePoints   = 2
	contentPoints     = 2
	settingsPoints    = 1

	totalProgressPoints = informationPoints + structurePoints + contentPoints + settingsPoints
)

// CalculateProgress scores draft completeness as an integer percentage
// (0-100). Completing additional fields never lowers the score.
func CalculateProgress(course *model.Course, content ContentSummary) int {
	points := 0

	// Information: title, description, category, level, one non-blank
	// objective, thumbnail.
	if strings.TrimSpace(course.Title) != "" {
		points++
	}
	if strings.TrimSpace(course.Description) != "" {
		points++
	}
	if strings.TrimSpace(course.Category) != "" {
		points++
	}
	if strings.TrimSpace(course.Level) != "" {
		points++
	}
	if hasNonBlankObjective(course.Objectives) {
		points++
	}
	if strings.TrimSpace(course.ThumbnailURL) != "" {
		points++
	}

	// Structure: at least one section, at least one lecture overall.
	if len(course.Sections) > 0 {
		points++
	}
	if course.TotalLectures() > 0 {
		points++
	}

	// Content: both points are awarded as soon as any item exists.
	if content.TotalItems > 0 {
		points += contentPoints
	}

	// Settings: free enrollment, or paid with a positive price.
	switch course.Settings.Enrollment.Type {
	case model.EnrollmentFree:
		points++
	case model.EnrollmentPaid:
		if course.Price > 0 {
			points++
		}
	}

	return int(math.Round(100 * float64(points) / float64(totalProgressPoints)))
}

func hasNonBlankObjective(objectives model.StringList) bool {
	for _, o := range objectives {
		if strings.TrimSpace(o) != "" {
			return true
		}
	}
	return false
}
