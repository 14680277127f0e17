package questionnaire

import (
	"sync"
	"testing"

	"github.com/ashureev/avika/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetAndGet(t *testing.T) {
	t.Parallel()

	s := NewStore(Default())

	_, ok := s.Get(1)
	assert.False(t, ok, "absent before any write")

	require.NoError(t, s.Set(1, domain.LetterB, domain.SourceAssistant))
	require.NoError(t, s.Set(1, domain.LetterA, domain.SourceUser))

	a, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, domain.Answer{QuestionID: 1, Letter: domain.LetterA, Source: domain.SourceUser}, a)
	assert.Equal(t, 1, s.Answered())
}

func TestStoreRejectsInvalidWrites(t *testing.T) {
	t.Parallel()

	s := NewStore(Default())

	err := s.Set(99, domain.LetterA, domain.SourceUser)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	err = s.Set(1, "E", domain.SourceUser)
	assert.ErrorIs(t, err, ErrInvalidLetter)

	assert.Zero(t, s.Answered())
}

func TestStoreUnansweredKeepsBankOrder(t *testing.T) {
	t.Parallel()

	s := NewStore(Default())
	require.NoError(t, s.Set(2, domain.LetterC, domain.SourceAssistant))
	require.NoError(t, s.Set(7, domain.LetterC, domain.SourceAssistant))

	var ids []int
	for _, q := range s.Unanswered() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []int{1, 3, 4, 5, 6, 8, 9, 10, 11, 12}, ids)
	assert.False(t, s.Complete())
}

func TestStoreAnswersIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore(Default())
	require.NoError(t, s.Set(3, domain.LetterD, domain.SourceUser))

	snapshot := s.Answers()
	delete(snapshot, 3)

	assert.True(t, s.IsAnswered(3))
}

func TestStoreConcurrentWrites(t *testing.T) {
	t.Parallel()

	s := NewStore(Default())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			letter := domain.Letters[i%len(domain.Letters)]
			_ = s.Set(i%12+1, letter, domain.SourceAssistant)
			_ = s.CompletionPercentage()
		}(i)
	}
	wg.Wait()

	assert.True(t, s.Complete())
	assert.InDelta(t, 100.0, s.CompletionPercentage(), 1e-9)
}
