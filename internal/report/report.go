// Package report turns recorded answers into per-category results.
package report

import (
	"fmt"
	"io"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/questionnaire"
)

// MaxScore is the best possible category score.
const MaxScore = 4.0

// Item is one answered question.
type Item struct {
	QuestionID int           `json:"question_id"`
	Question   string        `json:"question"`
	Answer     domain.Letter `json:"answer"`
	Option     string        `json:"option"`
	Source     domain.Source `json:"source"`
}

// Section holds the results of one category.
type Section struct {
	Category questionnaire.Category `json:"category"`
	Score    float64                `json:"score"`
	Answered int                    `json:"answered"`
	Total    int                    `json:"total"`
	Items    []Item                 `json:"items"`
}

// Report is the full assessment summary.
type Report struct {
	CompletionPct float64   `json:"completion_pct"`
	Complete      bool      `json:"complete"`
	Sections      []Section `json:"sections"`
}

// Build summarizes answers against bank, one section per category in display order.
func Build(bank *questionnaire.Bank, answers map[int]domain.Answer) Report {
	r := Report{
		CompletionPct: questionnaire.CompletionPercentage(bank, answers),
	}
	answered := 0
	for _, c := range questionnaire.Categories() {
		questions := bank.InCategory(c)
		sec := Section{
			Category: c,
			Score:    questionnaire.CategoryScore(bank, answers, c),
			Total:    len(questions),
			Items:    []Item{},
		}
		for _, q := range questions {
			a, ok := answers[q.ID]
			if !ok {
				continue
			}
			option, _ := q.Option(a.Letter)
			sec.Items = append(sec.Items, Item{
				QuestionID: q.ID,
				Question:   q.Text,
				Answer:     a.Letter,
				Option:     option,
				Source:     a.Source,
			})
		}
		sec.Answered = len(sec.Items)
		answered += sec.Answered
		r.Sections = append(r.Sections, sec)
	}
	r.Complete = answered == bank.Len()
	return r
}

// FromStore builds a report from a single snapshot of s.
func FromStore(s *questionnaire.Store) Report {
	return Build(s.Bank(), s.Answers())
}

// Render writes r as plain text.
func Render(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "Assessment Results:\nCompletion: %.0f%%\n", r.CompletionPct); err != nil {
		return err
	}
	for _, sec := range r.Sections {
		if _, err := fmt.Fprintf(w, "\n%s: %.1f/%.1f\n", sec.Category, sec.Score, MaxScore); err != nil {
			return err
		}
		for _, it := range sec.Items {
			if _, err := fmt.Fprintf(w, "  • %s\n    Answer: %s - %s\n", it.Question, it.Answer, it.Option); err != nil {
				return err
			}
		}
	}
	return nil
}
