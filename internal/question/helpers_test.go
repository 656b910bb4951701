package question

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// mockStore lets tests force store failures.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListQuestions(ctx context.Context) ([]repository.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockStore) ListCategories(ctx context.Context) ([]repository.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.Category), args.Error(1)
}

func (m *mockStore) GetCategory(ctx context.Context, id int64) (repository.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.Category), args.Error(1)
}

func (m *mockStore) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]repository.Question, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockStore) SearchQuestions(ctx context.Context, term string) ([]repository.Question, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockStore) InsertQuestion(ctx context.Context, params repository.InsertQuestionParams) (repository.Question, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(repository.Question), args.Error(1)
}

func (m *mockStore) DeleteQuestion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type memoryCache struct {
	mu         sync.Mutex
	categories []repository.Category
	ok         bool
	sets       int
}

func (c *memoryCache) Get(_ context.Context) ([]repository.Category, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories, c.ok, nil
}

func (c *memoryCache) Set(_ context.Context, categories []repository.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
	c.ok = true
	c.sets++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// fixedRand always picks index n (clamped to the range).
type fixedRand struct{ n int }

func (f fixedRand) IntN(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

var testCategories = []repository.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
}

// fixtureQuestions returns n questions with ids 1..n, odd ids in category 1
// and even ids in category 2.
func fixtureQuestions(n int) []repository.Question {
	out := make([]repository.Question, 0, n)
	for i := 1; i <= n; i++ {
		category := int64(1)
		if i%2 == 0 {
			category = 2
		}
		out = append(out, repository.Question{
			ID:         int64(i),
			Question:   "Question number " + string(rune('A'+i-1)),
			Answer:     "Answer",
			Category:   category,
			Difficulty: 1 + i%5,
		})
	}
	return out
}

func newTestService(questions []repository.Question, opts ServiceOptions) (*Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore(testCategories, questions)
	return NewService(store, nil, nil, opts, zerolog.Nop()), store
}

func questionIDs(qs []repository.Question) []int64 {
	out := make([]int64, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}
