package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/llm/mocks"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func question(t *testing.T, id int) questionnaire.Question {
	t.Helper()
	q, ok := questionnaire.Default().Question(id)
	require.True(t, ok)
	return q
}

func promptContaining(parts ...string) any {
	return mock.MatchedBy(func(prompt string) bool {
		for _, p := range parts {
			if !strings.Contains(prompt, p) {
				return false
			}
		}
		return true
	})
}

func TestResolveSingle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
		want  domain.Letter
		ok    bool
	}{
		{"exact letter", "B", nil, domain.LetterB, true},
		{"lowercase padded", "  c\n", nil, domain.LetterC, true},
		{"none", "None", nil, "", false},
		{"sentence", "The answer is B", nil, "", false},
		{"letter with period", "B.", nil, "", false},
		{"model error", "", errors.New("unavailable"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := mocks.NewGenerator(t)
			gen.On("Generate", mock.Anything, promptContaining("For the following question:", question(t, 12).Text)).
				Return(tt.reply, tt.err).Once()

			got, ok := New(gen, zap.NewNop()).ResolveSingle(context.Background(), nil, question(t, 12))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolveSingleSendsOnlyRecentHistory(t *testing.T) {
	t.Parallel()

	var history []domain.Message
	for i := 0; i < 10; i++ {
		history = append(history, domain.Message{Role: domain.RoleUser, Content: "msg-" + string(rune('a'+i))})
	}

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, "msg-d") && strings.Contains(p, "msg-e") && strings.Contains(p, "msg-j")
	})).Return("A", nil).Once()

	got, ok := New(gen, nil).ResolveSingle(context.Background(), history, question(t, 1))
	assert.True(t, ok)
	assert.Equal(t, domain.LetterA, got)
}

func TestResolveBatch(t *testing.T) {
	t.Parallel()

	unanswered := []questionnaire.Question{question(t, 1), question(t, 2), question(t, 10)}

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, promptContaining("Q1: ", "Q2: ", "Q10: ", "JSON object")).
		Return("Sure!\n```json\n{\"1\": \"A\", \"2\": null, \"10\": \"E\", \"11\": \"B\", \"x\": \"C\"}\n```", nil).Once()

	got := New(gen, zap.NewNop()).ResolveBatch(context.Background(), nil, unanswered)
	assert.Equal(t, map[int]domain.Letter{1: domain.LetterA}, got)
}

func TestResolveBatchFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"model error", "", errors.New("quota exceeded")},
		{"no object", "I could not decide.", nil},
		{"broken json", `{"1": "A",}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := mocks.NewGenerator(t)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err).Once()

			got := New(gen, zap.NewNop()).ResolveBatch(context.Background(), nil, []questionnaire.Question{question(t, 3)})
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestResolveBatchWithNothingToAskSkipsModel(t *testing.T) {
	t.Parallel()

	gen := mocks.NewGenerator(t)
	got := New(gen, zap.NewNop()).ResolveBatch(context.Background(), nil, nil)
	assert.Empty(t, got)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFollowUpTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		tone    string
	}{
		{1, followUpFirstTone},
		{2, followUpSecondTone},
		{3, followUpLaterTone},
		{7, followUpLaterTone},
	}
	for _, tt := range tests {
		gen := mocks.NewGenerator(t)
		gen.On("Generate", mock.Anything, promptContaining(tt.tone, "I'm fine")).Return("Tell me more?", nil).Once()

		got := New(gen, nil).FollowUp(context.Background(), question(t, 8), nil, "I'm fine", tt.attempt)
		assert.Equal(t, "Tell me more?", got)
	}
}

func TestMessageFallbacks(t *testing.T) {
	t.Parallel()

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("down"))

	e := New(gen, zap.NewNop())
	ctx := context.Background()
	group := []questionnaire.Question{question(t, 10), question(t, 11)}

	assert.Equal(t, FallbackFollowUp, e.FollowUp(ctx, question(t, 1), nil, "meh", 1))
	assert.Equal(t, FallbackGroup, e.GroupPrompt(ctx, nil, group))

	reply, err := e.SimulateReply(ctx, nil, StyleGeneric)
	require.NoError(t, err)
	assert.Equal(t, FallbackSimulate, reply)

	_, ok := e.AnalyzeResponse(ctx, "my head hurts", question(t, 10))
	assert.False(t, ok)
}

func TestBlankModelReplyUsesFallback(t *testing.T) {
	t.Parallel()

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, mock.Anything).Return("   ", nil).Once()

	got := New(gen, zap.NewNop()).GroupPrompt(context.Background(), nil, []questionnaire.Question{question(t, 4)})
	assert.Equal(t, FallbackGroup, got)
}

func TestGroupPromptListsTopics(t *testing.T) {
	t.Parallel()

	group := []questionnaire.Question{question(t, 1), question(t, 2)}
	history := []domain.Message{{Role: domain.RoleUser, Content: "I slept badly"}}

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, promptContaining(group[0].Text, group[1].Text, "I slept badly")).
		Return("  How have you been looking after yourself lately?  ", nil).Once()

	got := New(gen, zap.NewNop()).GroupPrompt(context.Background(), history, group)
	assert.Equal(t, "How have you been looking after yourself lately?", got)
}

func TestAnalyzeResponse(t *testing.T) {
	t.Parallel()

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, promptContaining(`Given this user response: "headaches almost every day"`, question(t, 10).Text)).
		Return("d", nil).Once()

	got, ok := New(gen, zap.NewNop()).AnalyzeResponse(context.Background(), "headaches almost every day", question(t, 10))
	assert.True(t, ok)
	assert.Equal(t, domain.LetterD, got)
}

func TestSimulateReply(t *testing.T) {
	t.Parallel()

	gen := mocks.NewGenerator(t)
	gen.On("Generate", mock.Anything, promptContaining("Style: CONTRADICTORY")).
		Return("I'm great, but also exhausted.", nil).Once()

	e := New(gen, zap.NewNop())
	got, err := e.SimulateReply(context.Background(), nil, "Contradictory")
	require.NoError(t, err)
	assert.Equal(t, "I'm great, but also exhausted.", got)

	_, err = e.SimulateReply(context.Background(), nil, "angry")
	assert.ErrorIs(t, err, ErrUnknownStyle)
}
