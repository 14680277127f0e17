package dialogue

import (
	"context"
	"sync"

	"github.com/ashureev/avika/internal/domain"
	"github.com/ashureev/avika/internal/questionnaire"
)

// fakeResolver scripts model behaviour and records what the session asked.
type fakeResolver struct {
	mu sync.Mutex

	single  map[int]domain.Letter
	batch   map[int]domain.Letter
	analyze map[int]domain.Letter

	// blockBatch, when set, is received from before ResolveBatch returns.
	blockBatch chan struct{}
	// enteredBatch is closed the first time ResolveBatch runs.
	enteredBatch chan struct{}
	panicIn      string

	singleCalls   []int
	batchCalls    int
	batchAsked    [][]int
	followUps     []int
	attemptsSeen  []int
	groups        [][]int
	maxHistoryLen int
}

func (f *fakeResolver) seen(history []domain.Message) {
	if len(history) > f.maxHistoryLen {
		f.maxHistoryLen = len(history)
	}
}

func (f *fakeResolver) ResolveSingle(_ context.Context, history []domain.Message, q questionnaire.Question) (domain.Letter, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicIn == "single" {
		panic("model client exploded")
	}
	f.seen(history)
	f.singleCalls = append(f.singleCalls, q.ID)
	l, ok := f.single[q.ID]
	return l, ok
}

func (f *fakeResolver) ResolveBatch(_ context.Context, history []domain.Message, unanswered []questionnaire.Question) map[int]domain.Letter {
	f.mu.Lock()
	if f.panicIn == "batch" {
		f.mu.Unlock()
		panic("model client exploded")
	}
	f.seen(history)
	f.batchCalls++
	ids := make([]int, len(unanswered))
	for i, q := range unanswered {
		ids[i] = q.ID
	}
	f.batchAsked = append(f.batchAsked, ids)
	out := make(map[int]domain.Letter)
	for id, l := range f.batch {
		out[id] = l
	}
	f.batch = nil
	entered, block := f.enteredBatch, f.blockBatch
	f.enteredBatch = nil
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}
	return out
}

func (f *fakeResolver) FollowUp(_ context.Context, q questionnaire.Question, history []domain.Message, _ string, attempt int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen(history)
	f.followUps = append(f.followUps, q.ID)
	f.attemptsSeen = append(f.attemptsSeen, attempt)
	return "Could you tell me more about that?"
}

func (f *fakeResolver) GroupPrompt(_ context.Context, history []domain.Message, group []questionnaire.Question) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen(history)
	ids := make([]int, len(group))
	for i, q := range group {
		ids[i] = q.ID
	}
	f.groups = append(f.groups, ids)
	return "How have things been lately?"
}

func (f *fakeResolver) AnalyzeResponse(_ context.Context, _ string, q questionnaire.Question) (domain.Letter, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.analyze[q.ID]
	return l, ok
}

func (f *fakeResolver) lastGroup() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.groups) == 0 {
		return nil
	}
	return f.groups[len(f.groups)-1]
}
