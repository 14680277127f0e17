package agent

import (
	"context"
	"sync"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/extractor"
	"github.com/ashureev/avika/internal/questionnaire"
)

// stubAssessor answers from a script keyed by the latest user message.
type stubAssessor struct {
	mu      sync.Mutex
	batch   map[string]map[int]domain.Letter
	analyze map[int]domain.Letter
}

func newStubAssessor() *stubAssessor {
	return &stubAssessor{
		batch:   map[string]map[int]domain.Letter{},
		analyze: map[int]domain.Letter{},
	}
}

func lastUser(history []domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func (s *stubAssessor) ResolveSingle(context.Context, []domain.Message, questionnaire.Question) (domain.Letter, bool) {
	return "", false
}

func (s *stubAssessor) ResolveBatch(_ context.Context, history []domain.Message, unanswered []questionnaire.Question) map[int]domain.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int]domain.Letter{}
	for id, l := range s.batch[lastUser(history)] {
		for _, q := range unanswered {
			if q.ID == id {
				out[id] = l
			}
		}
	}
	return out
}

func (s *stubAssessor) FollowUp(context.Context, questionnaire.Question, []domain.Message, string, int) string {
	return "Could you tell me a bit more?"
}

func (s *stubAssessor) GroupPrompt(_ context.Context, _ []domain.Message, group []questionnaire.Question) string {
	return "Next: " + group[0].Text
}

func (s *stubAssessor) AnalyzeResponse(_ context.Context, _ string, q questionnaire.Question) (domain.Letter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.analyze[q.ID]
	return l, ok
}

func (s *stubAssessor) SimulateReply(_ context.Context, _ []domain.Message, style extractor.Style) (string, error) {
	return "simulated " + string(style), nil
}
