// Package extractor turns free-form chat replies into questionnaire answers
// and phrases the assistant's next message, delegating judgment to a
// generative model. Every call is attempted once; failures degrade to
// "no answer" or a fixed fallback message and are never returned.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/llm"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// HistoryWindow is how many trailing history entries a prompt may see.
const HistoryWindow = 6

// Style selects the kind of simulated user reply.
type Style string

const (
	StyleGeneric       Style = "generic"
	StyleDetailed      Style = "detailed"
	StyleContradictory Style = "contradictory"
)

// ErrUnknownStyle is returned by SimulateReply for unsupported styles.
var ErrUnknownStyle = errors.New("unknown simulation style")

// ParseStyle validates s as a simulation style.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StyleGeneric, StyleDetailed, StyleContradictory:
		return st, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStyle)
}

// Extractor issues model calls for answer extraction and message generation.
type Extractor struct {
	gen llm.Generator
	log *zap.Logger
}

// New returns an Extractor backed by gen.
func New(gen llm.Generator, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{gen: gen, log: log.Named("extractor")}
}

// ResolveSingle asks whether the conversation answers q. The reply must be
// exactly one option letter; anything else is unresolved.
func (e *Extractor) ResolveSingle(ctx context.Context, history []domain.Message, q questionnaire.Question) (domain.Letter, bool) {
	prompt := fmt.Sprintf(singleQuestionPrompt, historyJSON(history), q.Text, q.OptionsJSON())
	text, ok := e.generate(ctx, "resolve_single", prompt, zap.Int("question_id", q.ID))
	if !ok {
		return "", false
	}
	return parseLetter(text)
}

// ResolveBatch asks the model to answer every question in unanswered at once.
// Only ids from unanswered with a valid letter are returned.
func (e *Extractor) ResolveBatch(ctx context.Context, history []domain.Message, unanswered []questionnaire.Question) map[int]domain.Letter {
	if len(unanswered) == 0 {
		return map[int]domain.Letter{}
	}

	blocks := lo.Map(unanswered, func(q questionnaire.Question, _ int) string {
		return fmt.Sprintf("Q%d: %s\nOptions: %s", q.ID, q.Text, q.OptionsJSON())
	})
	prompt := fmt.Sprintf(batchPrompt, historyJSON(history), strings.Join(blocks, "\n"))

	text, ok := e.generate(ctx, "resolve_batch", prompt, zap.Int("questions", len(unanswered)))
	if !ok {
		return map[int]domain.Letter{}
	}

	asked := lo.SliceToMap(unanswered, func(q questionnaire.Question) (int, struct{}) {
		return q.ID, struct{}{}
	})
	answers, err := parseBatch(text, asked)
	if err != nil {
		e.log.Warn("Unparseable batch reply", zap.Error(err), zap.Int("reply_length", len(text)))
		return map[int]domain.Letter{}
	}
	return answers
}

// FollowUp phrases a clarifying question after a vague reply to q. attempt
// counts follow-ups for q so far, including this one.
func (e *Extractor) FollowUp(ctx context.Context, q questionnaire.Question, history []domain.Message, reply string, attempt int) string {
	tone := followUpLaterTone
	switch {
	case attempt <= 1:
		tone = followUpFirstTone
	case attempt == 2:
		tone = followUpSecondTone
	}
	prompt := fmt.Sprintf(followUpPrompt, q.Text, historyJSON(history), reply, attempt, tone)
	if text, ok := e.generate(ctx, "follow_up", prompt, zap.Int("question_id", q.ID), zap.Int("attempt", attempt)); ok {
		return text
	}
	return FallbackFollowUp
}

// GroupPrompt writes one conversational message steering toward group.
func (e *Extractor) GroupPrompt(ctx context.Context, history []domain.Message, group []questionnaire.Question) string {
	topics := lo.Map(group, func(q questionnaire.Question, _ int) string { return q.Text })
	prompt := fmt.Sprintf(groupPrompt, historyJSON(history), strings.Join(topics, "\n"))
	if text, ok := e.generate(ctx, "group_prompt", prompt, zap.Ints("question_ids", questionIDs(group))); ok {
		return text
	}
	return FallbackGroup
}

// AnalyzeResponse matches a single reply against q without history.
func (e *Extractor) AnalyzeResponse(ctx context.Context, reply string, q questionnaire.Question) (domain.Letter, bool) {
	options, err := json.MarshalIndent(json.RawMessage(q.OptionsJSON()), "", "  ")
	if err != nil {
		options = []byte(q.OptionsJSON())
	}
	prompt := fmt.Sprintf(analyzePrompt, reply, q.Text, options)
	text, ok := e.generate(ctx, "analyze_response", prompt, zap.Int("question_id", q.ID))
	if !ok {
		return "", false
	}
	return parseLetter(text)
}

// SimulateReply produces a synthetic user message in the given style.
// Only an unknown style is reported as an error.
func (e *Extractor) SimulateReply(ctx context.Context, history []domain.Message, style Style) (string, error) {
	st, err := ParseStyle(string(style))
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(simulatePrompt, historyJSON(history), strings.ToUpper(string(st)))
	if text, ok := e.generate(ctx, "simulate_reply", prompt, zap.String("style", string(st))); ok {
		return text, nil
	}
	return FallbackSimulate, nil
}

func (e *Extractor) generate(ctx context.Context, op, prompt string, fields ...zap.Field) (string, bool) {
	text, err := e.gen.Generate(ctx, prompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = llm.ErrEmptyResponse
		}
	}
	if err != nil {
		e.log.Warn("Model call failed", append(fields, zap.String("op", op), zap.Error(err))...)
		return "", false
	}
	e.log.Debug("Model call completed", append(fields, zap.String("op", op), zap.Int("reply_length", len(text)))...)
	return text, true
}

func historyJSON(history []domain.Message) string {
	b, err := json.Marshal(domain.Tail(history, HistoryWindow))
	if err != nil {
		return "[]"
	}
	return string(b)
}

func questionIDs(qs []questionnaire.Question) []int {
	return lo.Map(qs, func(q questionnaire.Question, _ int) int { return q.ID })
}
