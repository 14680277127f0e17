// Package questionnaire holds the fixed question bank, the answer store and
// the scoring rules for the well-being assessment.
package questionnaire

// Category is one of the four assessment domains.
type Category string

const (
	AppearanceAwareness Category = "Appearance & Awareness"
	AttitudeEngagement  Category = "Attitude & Engagement"
	BehaviorPerformance Category = "Behavior and Performance"
	SomaticComplaints   Category = "Somatic Complaints"
)

var categories = []Category{
	AppearanceAwareness,
	AttitudeEngagement,
	BehaviorPerformance,
	SomaticComplaints,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}
