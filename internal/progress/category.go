package progress

import "strings"

// Category is the coarse training grouping derived from a body-part label.
type Category string

const (
	CategoryPush  Category = "Push"
	CategoryPull  Category = "Pull"
	CategoryLegs  Category = "Legs"
	CategoryCore  Category = "Core"
	CategoryOther Category = "Other"
)

// CategoryOrder is the fixed presentation order for category groupings.
var CategoryOrder = []Category{CategoryPush, CategoryPull, CategoryLegs, CategoryCore, CategoryOther}

// categoryRules are evaluated in order; the first matching rule wins.
// A label matching several rules (e.g. "Lower Back" matches both the Pull
// and Legs substrings) resolves to the earliest rule. Do not reorder.
var categoryRules = []struct {
	category   Category
	substrings []string
}{
	{CategoryPush, []string{"chest", "shoulder", "tricep"}},
	{CategoryPull, []string{"back", "bicep", "rear delt"}},
	{CategoryLegs, []string{"leg", "quad", "hamstring", "glute", "calf", "lower"}},
	{CategoryCore, []string{"core", "ab", "cardio"}},
}

// Classify maps a body-part label to its training category using ordered
// case-insensitive substring tests.
func Classify(bodyPart string) Category {
	lower := strings.ToLower(bodyPart)
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
