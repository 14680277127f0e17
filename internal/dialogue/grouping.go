package dialogue

import (
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/samber/lo"
)

// GroupSize caps how many questions one assistant message pursues.
const GroupSize = 3

// NextGroup picks the questions to pursue next. It takes up to GroupSize
// questions from the category with the most unanswered questions, breaking
// ties by the order categories first appear in unanswered. When that category
// has a single question left, the first unanswered question is used alone.
func NextGroup(unanswered []questionnaire.Question) []questionnaire.Question {
	if len(unanswered) == 0 {
		return nil
	}

	order := lo.Uniq(lo.Map(unanswered, func(q questionnaire.Question, _ int) questionnaire.Category {
		return q.Category
	}))
	byCategory := lo.GroupBy(unanswered, func(q questionnaire.Question) questionnaire.Category {
		return q.Category
	})

	best := order[0]
	for _, c := range order[1:] {
		if len(byCategory[c]) > len(byCategory[best]) {
			best = c
		}
	}

	group := byCategory[best]
	if len(group) > 1 {
		return group[:min(len(group), GroupSize)]
	}
	return unanswered[:1]
}
