// Package dialogue runs one assessment conversation: it records the chat
// history, decides which questions to pursue, asks the extractor to resolve
// answers and produces the assistant's next message.
package dialogue

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/questionnaire"
	"go.uber.org/zap"
)

// Fixed assistant lines.
const (
	Greeting = "Hi! I'm Avika. I'm here to chat about your well-being. Feel free to share as much or as little as you like—there's no pressure. How are you feeling today?"

	CompletionMessage = "Thank you for sharing all of this with me! Your assessment is complete. You can view the full report in the 'Questionnaire' tab now."

	ApologyMessage = "I'm having trouble connecting to the AI service right now. Please try again in a moment."
)

// Resolver is the model-backed side of a conversation.
type Resolver interface {
	ResolveSingle(ctx context.Context, history []domain.Message, q questionnaire.Question) (domain.Letter, bool)
	ResolveBatch(ctx context.Context, history []domain.Message, unanswered []questionnaire.Question) map[int]domain.Letter
	FollowUp(ctx context.Context, q questionnaire.Question, history []domain.Message, reply string, attempt int) string
	GroupPrompt(ctx context.Context, history []domain.Message, group []questionnaire.Question) string
	AnalyzeResponse(ctx context.Context, reply string, q questionnaire.Question) (domain.Letter, bool)
}

// Phase summarizes where the conversation stands.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhasePursuing         Phase = "pursuing"
	PhaseAwaitingFollowUp Phase = "awaiting_follow_up"
	PhaseComplete         Phase = "complete"
)

// Options tune turn handling.
type Options struct {
	// PreserveFollowUp keeps a follow-up generated during pursuit when the
	// batch pass that follows also resolves nothing.
	PreserveFollowUp bool
	// HistoryWindow is how many trailing messages the resolver sees.
	HistoryWindow int
}

const defaultHistoryWindow = 6

// State is a point-in-time view of a session.
type State struct {
	Answers        map[int]domain.Answer              `json:"answers"`
	History        []domain.Message                   `json:"history"`
	CompletionPct  float64                            `json:"completion_pct"`
	CategoryScores map[questionnaire.Category]float64 `json:"category_scores"`
	Phase          Phase                              `json:"state"`
	Pursued        []int                              `json:"pursued"`
	Complete       bool                               `json:"complete"`
}

// Session owns one conversation. Turns are serialized; reads and user
// overrides may run while a turn waits on the model.
type Session struct {
	store    *questionnaire.Store
	resolver Resolver
	log      *zap.Logger
	opts     Options

	turnMu sync.Mutex

	mu               sync.Mutex
	history          []domain.Message
	pursued          []int
	pendingFollowUp  string
	awaitingFollowUp bool
	attempts         map[int]int
}

// New starts an empty session over bank.
func New(bank *questionnaire.Bank, resolver Resolver, log *zap.Logger, opts Options) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	return &Session{
		store:    questionnaire.NewStore(bank),
		resolver: resolver,
		log:      log,
		opts:     opts,
		attempts: make(map[int]int),
	}
}

// Greeting returns the opening line shown before the first turn.
func (s *Session) Greeting() string { return Greeting }

// Store exposes the session's answers.
func (s *Session) Store() *questionnaire.Store { return s.store }

// Submit handles one user message and returns the assistant's reply. Both are
// appended to the history. A failure inside the turn yields ApologyMessage.
func (s *Session) Submit(ctx context.Context, text string) (reply string) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.appendMessage(domain.RoleUser, text)
	defer s.recoverTurn(&reply)

	resolved := s.resolvePursued(ctx, text)
	if len(resolved) == 0 {
		resolved = s.resolveOpportunistic(ctx)
	}
	s.apply(resolved)

	reply = s.nextMessage(ctx)
	s.appendMessage(domain.RoleAssistant, reply)
	return reply
}

// SubmitLegacy handles a message with the keyword relevance heuristic: the
// best-matching unanswered question is analysed against the reply alone.
func (s *Session) SubmitLegacy(ctx context.Context, text string) (reply string) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.appendMessage(domain.RoleUser, text)
	defer s.recoverTurn(&reply)

	if matches := questionnaire.Match(text, s.store.Unanswered()); len(matches) > 0 {
		q := matches[0].Question
		if letter, ok := s.resolver.AnalyzeResponse(ctx, text, q); ok {
			s.apply(map[int]domain.Letter{q.ID: letter})
		}
	}

	reply = s.nextMessage(ctx)
	s.appendMessage(domain.RoleAssistant, reply)
	return reply
}

func (s *Session) recoverTurn(reply *string) {
	r := recover()
	if r == nil {
		return
	}
	s.log.Error("Turn failed", zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
	*reply = ApologyMessage
	s.appendMessage(domain.RoleAssistant, ApologyMessage)
}

// resolvePursued checks the reply against each unanswered pursued question.
// The first miss queues one follow-up; any hit drops it and ends the pursuit.
func (s *Session) resolvePursued(ctx context.Context, text string) map[int]domain.Letter {
	s.mu.Lock()
	pursued := slices.Clone(s.pursued)
	s.mu.Unlock()
	if len(pursued) == 0 {
		return nil
	}

	history := s.recentHistory()
	resolved := make(map[int]domain.Letter)
	for _, q := range s.store.Bank().Questions() {
		if !slices.Contains(pursued, q.ID) || s.store.IsAnswered(q.ID) {
			continue
		}
		if letter, ok := s.resolver.ResolveSingle(ctx, history, q); ok {
			resolved[q.ID] = letter
			s.setAttempts(q.ID, 0)
			continue
		}
		if s.hasPendingFollowUp() {
			continue
		}
		attempt := s.incAttempts(q.ID)
		followUp := s.resolver.FollowUp(ctx, q, history, text, attempt)
		s.mu.Lock()
		s.pendingFollowUp = followUp
		s.mu.Unlock()
	}

	if len(resolved) > 0 {
		s.mu.Lock()
		s.pursued = nil
		s.pendingFollowUp = ""
		s.mu.Unlock()
	}
	return resolved
}

// resolveOpportunistic drops the pursuit and checks the reply against every
// unanswered question at once.
func (s *Session) resolveOpportunistic(ctx context.Context) map[int]domain.Letter {
	s.mu.Lock()
	kept, keptPursuit := s.pendingFollowUp, s.pursued
	s.pendingFollowUp = ""
	s.pursued = nil
	s.mu.Unlock()

	resolved := s.resolver.ResolveBatch(ctx, s.recentHistory(), s.store.Unanswered())

	if s.opts.PreserveFollowUp && len(resolved) == 0 && kept != "" {
		s.mu.Lock()
		s.pendingFollowUp = kept
		s.pursued = keptPursuit
		s.mu.Unlock()
	}
	return resolved
}

func (s *Session) apply(resolved map[int]domain.Letter) {
	ids := make([]int, 0, len(resolved))
	for id := range resolved {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if err := s.store.Set(id, resolved[id], domain.SourceAssistant); err != nil {
			s.log.Warn("Discarding resolved answer", zap.Int("question_id", id), zap.Error(err))
			continue
		}
		s.setAttempts(id, 0)
		s.log.Debug("Answer recorded", zap.Int("question_id", id), zap.String("answer", string(resolved[id])))
	}
}

// nextMessage emits a queued follow-up, else opens the next question group,
// else closes the assessment.
func (s *Session) nextMessage(ctx context.Context) string {
	s.mu.Lock()
	if followUp := s.pendingFollowUp; followUp != "" {
		s.pendingFollowUp = ""
		s.awaitingFollowUp = true
		s.mu.Unlock()
		return followUp
	}
	s.awaitingFollowUp = false
	s.mu.Unlock()

	group := NextGroup(s.store.Unanswered())
	if len(group) == 0 {
		s.mu.Lock()
		s.pursued = nil
		s.mu.Unlock()
		return CompletionMessage
	}

	ids := make([]int, len(group))
	for i, q := range group {
		ids[i] = q.ID
	}
	s.mu.Lock()
	s.pursued = ids
	s.mu.Unlock()

	return s.resolver.GroupPrompt(ctx, s.recentHistory(), group)
}

// SetAnswer records the user's own choice for a question. It does not touch
// the pursuit or follow-up counters.
func (s *Session) SetAnswer(id int, letter string) error {
	l, ok := domain.ParseLetter(letter)
	if !ok {
		return fmt.Errorf("question %d: %q: %w", id, letter, questionnaire.ErrInvalidLetter)
	}
	return s.store.Set(id, l, domain.SourceUser)
}

// Snapshot returns answers, history and scores computed from one read.
func (s *Session) Snapshot() State {
	answers := s.store.Answers()
	bank := s.store.Bank()

	s.mu.Lock()
	history := slices.Clone(s.history)
	pursued := slices.Clone(s.pursued)
	phase := s.phaseLocked(len(answers) == bank.Len())
	s.mu.Unlock()

	if history == nil {
		history = []domain.Message{}
	}
	if pursued == nil {
		pursued = []int{}
	}
	return State{
		Answers:        answers,
		History:        history,
		CompletionPct:  questionnaire.CompletionPercentage(bank, answers),
		CategoryScores: questionnaire.CategoryScores(bank, answers),
		Phase:          phase,
		Pursued:        pursued,
		Complete:       phase == PhaseComplete,
	}
}

// Phase reports the current conversation phase.
func (s *Session) Phase() Phase {
	complete := s.store.Complete()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked(complete)
}

func (s *Session) phaseLocked(complete bool) Phase {
	switch {
	case complete:
		return PhaseComplete
	case s.awaitingFollowUp && len(s.pursued) > 0:
		return PhaseAwaitingFollowUp
	case len(s.pursued) > 0:
		return PhasePursuing
	default:
		return PhaseIdle
	}
}

// History returns a copy of the conversation so far.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// RecentHistory returns the trailing window the resolver sees.
func (s *Session) RecentHistory() []domain.Message {
	return s.recentHistory()
}

// Pursued returns the ids currently being pursued.
func (s *Session) Pursued() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pursued)
}

// FollowUpAttempts returns how many follow-ups question id has received
// since it was last answered.
func (s *Session) FollowUpAttempts(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[id]
}

func (s *Session) appendMessage(role domain.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.Message{Role: role, Content: content})
}

func (s *Session) recentHistory() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Tail(s.history, s.opts.HistoryWindow)
}

func (s *Session) hasPendingFollowUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingFollowUp != ""
}

func (s *Session) setAttempts(id, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[id] = n
}

func (s *Session) incAttempts(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[id]++
	return s.attempts[id]
}
