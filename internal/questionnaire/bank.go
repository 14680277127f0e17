package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashureev/avika/internal/domain"
	"github.com/samber/lo"
)

var (
	// ErrUnknownQuestion is returned for ids outside the bank.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrInvalidLetter is returned for option letters other than A-D.
	ErrInvalidLetter = errors.New("invalid answer letter")
)

// Option is one labelled choice of a question.
type Option struct {
	Letter domain.Letter `json:"letter"`
	Text   string        `json:"text"`
}

// Question is an immutable multiple-choice item.
type Question struct {
	ID           int      `json:"id"`
	Category     Category `json:"category"`
	Text         string   `json:"text"`
	Options      []Option `json:"options"`
	Keywords     []string `json:"keywords"`
	ContextHints []string `json:"context_hints"`
}

// Option returns the description for letter l.
func (q Question) Option(l domain.Letter) (string, bool) {
	for _, o := range q.Options {
		if o.Letter == l {
			return o.Text, true
		}
	}
	return "", false
}

// OptionsJSON renders the options as a {"A": "...", ...} object for prompts.
func (q Question) OptionsJSON() string {
	m := make(map[string]string, len(q.Options))
	for _, o := range q.Options {
		m[string(o.Letter)] = o.Text
	}
	// Map keys are sorted by encoding/json, so the output is stable.
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Bank is an ordered, read-only set of questions.
type Bank struct {
	questions []Question
	index     map[int]int
}

// NewBank validates questions and returns a bank preserving their order.
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, errors.New("question bank is empty")
	}
	b := &Bank{
		questions: make([]Question, len(questions)),
		index:     make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		if _, dup := b.index[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if !q.Category.Valid() {
			return nil, fmt.Errorf("question %d: unknown category %q", q.ID, q.Category)
		}
		if len(q.Options) != len(domain.Letters) {
			return nil, fmt.Errorf("question %d: expected %d options, got %d", q.ID, len(domain.Letters), len(q.Options))
		}
		for j, o := range q.Options {
			if o.Letter != domain.Letters[j] {
				return nil, fmt.Errorf("question %d: option %d must be %s", q.ID, j, domain.Letters[j])
			}
		}
		b.questions[i] = q
		b.index[q.ID] = i
	}
	return b, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Questions returns all questions in bank order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Question looks up a question by id.
func (b *Bank) Question(id int) (Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Has reports whether id exists in the bank.
func (b *Bank) Has(id int) bool {
	_, ok := b.index[id]
	return ok
}

// InCategory returns the questions of c in bank order.
func (b *Bank) InCategory(c Category) []Question {
	return lo.Filter(b.questions, func(q Question, _ int) bool {
		return q.Category == c
	})
}
