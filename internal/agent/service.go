package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashureev/avika/internal/dialogue"
	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/extractor"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/ashureev/avika/internal/report"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
var ErrSessionNotFound = errors.New("session not found")

// Assessor is the model-backed side of every session.
type Assessor interface {
	dialogue.Resolver
	SimulateReply(ctx context.Context, history []domain.Message, style extractor.Style) (string, error)
}

// ServiceConfig tunes the session registry.
type ServiceConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Dialogue        dialogue.Options
}

type entry struct {
	owner     string
	session   *dialogue.Session
	createdAt time.Time
}

// Service keeps assessment sessions in memory, each owned by one device.
// A session expires after TTL without access.
type Service struct {
	bank     *questionnaire.Bank
	assessor Assessor
	sessions *cache.Cache
	opts     dialogue.Options
	convLog  ConversationLogger
	log      *zap.Logger
}

// NewService creates a session registry.
func NewService(bank *questionnaire.Bank, assessor Assessor, convLog ConversationLogger, log *zap.Logger, cfg ServiceConfig) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if convLog == nil {
		convLog = noopConversationLogger{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}

	s := &Service{
		bank:     bank,
		assessor: assessor,
		sessions: cache.New(cfg.TTL, cfg.CleanupInterval),
		opts:     cfg.Dialogue,
		convLog:  convLog,
		log:      log.Named("agent"),
	}
	s.sessions.OnEvicted(func(id string, v any) {
		sessionsActive.Dec()
		if e, ok := v.(*entry); ok {
			s.log.Info("Session closed",
				zap.String("session_id", id),
				zap.String("device_id", e.owner),
				zap.Duration("age", time.Since(e.createdAt)),
			)
		}
	})
	return s
}

// Bank returns the question bank shared by all sessions.
func (s *Service) Bank() *questionnaire.Bank { return s.bank }

// Create starts a session for owner.
func (s *Service) Create(owner string) (string, *dialogue.Session) {
	id := uuid.NewString()
	sess := dialogue.New(s.bank, s.assessor, s.log.With(zap.String("session_id", id)), s.opts)
	s.sessions.SetDefault(id, &entry{owner: owner, session: sess, createdAt: time.Now()})
	sessionsActive.Inc()

	s.log.Info("Session created", zap.String("session_id", id), zap.String("device_id", owner))
	s.logEvent(owner, id, "outbound", "assistant_greeting", sess.Greeting(), nil)
	return id, sess
}

// Get returns the session id owned by owner and refreshes its expiry.
func (s *Service) Get(owner, id string) (*dialogue.Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e := v.(*entry)
	if e.owner != owner {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	s.sessions.SetDefault(id, e)
	return e.session, nil
}

// Submit runs one turn and returns the reply with the state after it.
func (s *Service) Submit(ctx context.Context, owner, id, message string, legacy bool) (string, dialogue.State, error) {
	sess, err := s.Get(owner, id)
	if err != nil {
		return "", dialogue.State{}, err
	}

	mode := "extractor"
	if legacy {
		mode = "legacy"
	}
	s.logEvent(owner, id, "inbound", "user_message", message, map[string]any{"mode": mode})

	before := sess.Store().Answered()
	start := time.Now()
	var reply string
	if legacy {
		reply = sess.SubmitLegacy(ctx, message)
	} else {
		reply = sess.Submit(ctx, message)
	}
	state := sess.Snapshot()

	turnsTotal.WithLabelValues(mode).Inc()
	if added := len(state.Answers) - before; added > 0 {
		answersRecorded.WithLabelValues(string(domain.SourceAssistant)).Add(float64(added))
	}

	s.log.Info("Turn handled",
		zap.String("session_id", id),
		zap.String("mode", mode),
		zap.Int("message_length", len(message)),
		zap.Int("answered", len(state.Answers)),
		zap.String("phase", string(state.Phase)),
		zap.Duration("duration", time.Since(start)),
	)
	s.logEvent(owner, id, "outbound", "assistant_message", reply, map[string]any{
		"answered": len(state.Answers),
		"phase":    state.Phase,
	})
	return reply, state, nil
}

// SetAnswer records a user override.
func (s *Service) SetAnswer(owner, id string, questionID int, letter string) (dialogue.State, error) {
	sess, err := s.Get(owner, id)
	if err != nil {
		return dialogue.State{}, err
	}
	if err := sess.SetAnswer(questionID, letter); err != nil {
		return dialogue.State{}, err
	}
	answersRecorded.WithLabelValues(string(domain.SourceUser)).Inc()
	s.logEvent(owner, id, "inbound", "answer_override", letter, map[string]any{"question_id": questionID})
	return sess.Snapshot(), nil
}

// State returns a snapshot of the session.
func (s *Service) State(owner, id string) (dialogue.State, error) {
	sess, err := s.Get(owner, id)
	if err != nil {
		return dialogue.State{}, err
	}
	return sess.Snapshot(), nil
}

// Report summarizes the session's answers.
func (s *Service) Report(owner, id string) (report.Report, error) {
	sess, err := s.Get(owner, id)
	if err != nil {
		return report.Report{}, err
	}
	return report.FromStore(sess.Store()), nil
}

// Simulate produces a synthetic user reply for the conversation so far.
// It does not run a turn.
func (s *Service) Simulate(ctx context.Context, owner, id, style string) (string, error) {
	st, err := extractor.ParseStyle(style)
	if err != nil {
		return "", err
	}
	sess, err := s.Get(owner, id)
	if err != nil {
		return "", err
	}
	return s.assessor.SimulateReply(ctx, sess.RecentHistory(), st)
}

// Delete ends a session.
func (s *Service) Delete(owner, id string) error {
	if _, err := s.Get(owner, id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	return nil
}

// Count returns the number of live sessions.
func (s *Service) Count() int { return s.sessions.ItemCount() }

// Close drops every session and flushes the transcript log.
func (s *Service) Close() error {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
	return s.convLog.Close()
}

func (s *Service) logEvent(owner, id, direction, eventType, content string, meta map[string]any) {
	s.convLog.Log(ConversationLogEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		UserID:     owner,
		SessionID:  id,
		Channel:    "chat",
		Direction:  direction,
		EventType:  eventType,
		ContentRaw: content,
		Meta:       meta,
	})
}
