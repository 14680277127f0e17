package questionnaire

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	keywordWeight = 0.7
	hintWeight    = 0.3
)

// Relevance pairs a question with its overlap score against some text.
type Relevance struct {
	Question Question
	Score    float64
}

// Match scores text against questions by case-insensitive substring hits on
// keywords and context hints. Only positive scores are returned, highest first;
// ties keep the input order.
func Match(text string, questions []Question) []Relevance {
	lower := strings.ToLower(text)
	contains := func(phrase string) bool {
		return strings.Contains(lower, strings.ToLower(phrase))
	}

	var out []Relevance
	for _, q := range questions {
		score := float64(lo.CountBy(q.Keywords, contains))*keywordWeight +
			float64(lo.CountBy(q.ContextHints, contains))*hintWeight
		if score > 0 {
			out = append(out, Relevance{Question: q, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
