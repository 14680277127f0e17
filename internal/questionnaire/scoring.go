package questionnaire

import "github.com/ashureev/avika/internal/domain"

// CategoryScore averages Letter.Score over the answered questions of c.
// A category with no answers scores 0.
func CategoryScore(bank *Bank, answers map[int]domain.Answer, c Category) float64 {
	total, n := 0, 0
	for _, q := range bank.InCategory(c) {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		total += a.Letter.Score()
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// CategoryScores scores every category.
func CategoryScores(bank *Bank, answers map[int]domain.Answer) map[Category]float64 {
	out := make(map[Category]float64, len(categories))
	for _, c := range categories {
		out[c] = CategoryScore(bank, answers, c)
	}
	return out
}

// CompletionPercentage returns the share of bank questions present in answers.
func CompletionPercentage(bank *Bank, answers map[int]domain.Answer) float64 {
	if bank.Len() == 0 {
		return 0
	}
	answered := 0
	for _, q := range bank.questions {
		if _, ok := answers[q.ID]; ok {
			answered++
		}
	}
	return float64(answered) / float64(bank.Len()) * 100
}
