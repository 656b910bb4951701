package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps questions and categories in process memory.
// It backs tests and the "memory" store driver.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[int64]Category
	questions  []Question
	nextID     int64
}

func NewMemoryStore(categories []Category, questions []Question) *MemoryStore {
	s := &MemoryStore{
		categories: make(map[int64]Category, len(categories)),
		nextID:     1,
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	s.questions = append(s.questions, questions...)
	sort.Slice(s.questions, func(i, j int) bool { return s.questions[i].ID < s.questions[j].ID })
	for _, q := range s.questions {
		if q.ID >= s.nextID {
			s.nextID = q.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) ListQuestions(_ context.Context) ([]Question, error) {
	return s.filter(func(Question) bool { return true }), nil
}

func (s *MemoryStore) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]Question, error) {
	return s.filter(func(q Question) bool { return q.Category == categoryID }), nil
}

func (s *MemoryStore) SearchQuestions(_ context.Context, term string) ([]Question, error) {
	needle := strings.ToLower(term)
	return s.filter(func(q Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (s *MemoryStore) filter(keep func(Question) bool) []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Question{}
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id int64) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) InsertQuestion(_ context.Context, params InsertQuestionParams) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[params.Category]; !ok {
		return Question{}, fmt.Errorf("%w: %d", ErrUnknownCategory, params.Category)
	}
	q := Question{
		ID:         s.nextID,
		Question:   params.Question,
		Answer:     params.Answer,
		Category:   params.Category,
		Difficulty: params.Difficulty,
	}
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *MemoryStore) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
