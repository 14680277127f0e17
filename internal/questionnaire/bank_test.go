package questionnaire

import (
	"testing"

	"github.com/ashureev/avika/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	t.Parallel()

	b := Default()
	require.Equal(t, 12, b.Len())

	perCategory := map[Category]int{}
	for i, q := range b.Questions() {
		assert.Equal(t, i+1, q.ID, "ids are sequential in bank order")
		assert.True(t, q.Category.Valid())
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Keywords)
		assert.NotEmpty(t, q.ContextHints)
		perCategory[q.Category]++
	}
	for _, c := range Categories() {
		assert.Equal(t, 3, perCategory[c], "category %s", c)
	}
}

func TestBankLookup(t *testing.T) {
	t.Parallel()

	b := Default()

	q, ok := b.Question(5)
	require.True(t, ok)
	assert.Equal(t, AttitudeEngagement, q.Category)

	text, ok := q.Option(domain.LetterA)
	assert.True(t, ok)
	assert.Equal(t, "I maintain steady and appropriate eye contact", text)

	_, ok = b.Question(13)
	assert.False(t, ok)
	assert.False(t, b.Has(0))

	ids := []int{}
	for _, q := range b.InCategory(SomaticComplaints) {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []int{10, 11, 12}, ids)
}

func TestOptionsJSON(t *testing.T) {
	t.Parallel()

	q, _ := Default().Question(4)
	assert.JSONEq(t, `{
		"A": "I respond openly and constructively",
		"B": "I avoid giving direct answers",
		"C": "I question their intent before answering",
		"D": "I refuse to answer or challenge the question"
	}`, q.OptionsJSON())
}

func TestNewBankRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	valid := defaultQuestions[0]

	tests := []struct {
		name      string
		questions []Question
	}{
		{"empty", nil},
		{"duplicate id", []Question{valid, valid}},
		{"unknown category", []Question{func() Question {
			q := valid
			q.Category = "Mood"
			return q
		}()}},
		{"missing option", []Question{func() Question {
			q := valid
			q.Options = q.Options[:3]
			return q
		}()}},
		{"out of order options", []Question{func() Question {
			q := valid
			q.Options = []Option{q.Options[1], q.Options[0], q.Options[2], q.Options[3]}
			return q
		}()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBank(tt.questions)
			assert.Error(t, err)
		})
	}
}
