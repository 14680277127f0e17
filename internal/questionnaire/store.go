package questionnaire

import (
	"fmt"
	"sync"

	"github.com/ashureev/avika/internal/domain"
	"github.com/samber/lo"
)

// Store records at most one answer per question of its bank.
// Writes are last-write-wins regardless of source.
type Store struct {
	bank    *Bank
	mu      sync.RWMutex
	answers map[int]domain.Answer
}

// NewStore returns an empty store for bank.
func NewStore(bank *Bank) *Store {
	return &Store{
		bank:    bank,
		answers: make(map[int]domain.Answer, bank.Len()),
	}
}

// Bank returns the question bank backing the store.
func (s *Store) Bank() *Bank { return s.bank }

// Set records letter for question id, replacing any earlier answer.
func (s *Store) Set(id int, letter domain.Letter, source domain.Source) error {
	if !s.bank.Has(id) {
		return fmt.Errorf("question %d: %w", id, ErrUnknownQuestion)
	}
	if !letter.Valid() {
		return fmt.Errorf("question %d: %q: %w", id, letter, ErrInvalidLetter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[id] = domain.Answer{QuestionID: id, Letter: letter, Source: source}
	return nil
}

// Get returns the answer for id, if any.
func (s *Store) Get(id int) (domain.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.answers[id]
	return a, ok
}

// IsAnswered reports whether id has an answer.
func (s *Store) IsAnswered(id int) bool {
	_, ok := s.Get(id)
	return ok
}

// Answers returns a copy of every recorded answer keyed by question id.
func (s *Store) Answers() map[int]domain.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]domain.Answer, len(s.answers))
	for id, a := range s.answers {
		out[id] = a
	}
	return out
}

// Answered returns how many questions have an answer.
func (s *Store) Answered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// Unanswered returns the questions without an answer, in bank order.
func (s *Store) Unanswered() []Question {
	answers := s.Answers()
	return lo.Filter(s.bank.Questions(), func(q Question, _ int) bool {
		_, ok := answers[q.ID]
		return !ok
	})
}

// Complete reports whether every question has been answered.
func (s *Store) Complete() bool {
	return s.Answered() == s.bank.Len()
}

// CategoryScore returns the mean score of the answered questions in c.
func (s *Store) CategoryScore(c Category) float64 {
	return CategoryScore(s.bank, s.Answers(), c)
}

// CategoryScores returns the score of every category from one snapshot.
func (s *Store) CategoryScores() map[Category]float64 {
	return CategoryScores(s.bank, s.Answers())
}

// CompletionPercentage returns 100 * answered / total.
func (s *Store) CompletionPercentage() float64 {
	return CompletionPercentage(s.bank, s.Answers())
}
