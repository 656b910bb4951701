package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// Store is the persistence boundary for questions and categories.
// Implemented by repository.PostgresStore, SQLiteStore and MemoryStore.
type Store interface {
	ListQuestions(ctx context.Context) ([]repository.Question, error)
	ListCategories(ctx context.Context) ([]repository.Category, error)
	GetCategory(ctx context.Context, id int64) (repository.Category, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]repository.Question, error)
	SearchQuestions(ctx context.Context, term string) ([]repository.Question, error)
	InsertQuestion(ctx context.Context, params repository.InsertQuestionParams) (repository.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// CategoryCache defines cache behavior (implemented by Redis-backed Cache).
type CategoryCache interface {
	Get(ctx context.Context) ([]repository.Category, bool, error)
	Set(ctx context.Context, categories []repository.Category) error
}

// EventPublisher announces question bank changes (implemented by RedisPublisher).
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Service orchestrates store access, filtering and quiz selection.
type Service struct {
	store    Store
	cache    CategoryCache
	events   EventPublisher
	selector *Selector
	logger   zerolog.Logger
}

type ServiceOptions struct {
	// Rand overrides the quiz randomness source; nil uses the process-wide generator.
	Rand Rand
}

// NewService wires the service; cache and events may be nil.
func NewService(store Store, cache CategoryCache, events EventPublisher, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		events:   events,
		selector: NewSelector(opts.Rand),
		logger:   logger.With().Str("component", "question_service").Logger(),
	}
}

// Categories returns every category, served from cache when possible.
func (s *Service) Categories(ctx context.Context) ([]repository.Category, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx); err == nil && ok {
			return cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		}
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrUnprocessable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// Category looks up a single category; unknown ids yield ErrNotFound.
func (s *Service) Category(ctx context.Context, id int64) (repository.Category, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx); err == nil && ok {
			for _, c := range cached {
				if c.ID == id {
					return c, nil
				}
			}
		}
	}

	c, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Category{}, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("%w: get category %d: %v", ErrUnprocessable, id, err)
	}
	return c, nil
}

// Create validates required fields and inserts a question. Validation failures
// never reach the store.
func (s *Service) Create(ctx context.Context, req CreateRequest) (repository.Question, error) {
	params, err := validateCreate(req)
	if err != nil {
		return repository.Question{}, fmt.Errorf("%w: %v", ErrUnprocessable, err)
	}

	created, err := s.store.InsertQuestion(ctx, params)
	if err != nil {
		return repository.Question{}, fmt.Errorf("%w: insert question: %v", ErrUnprocessable, err)
	}

	s.publish(ctx, Event{Type: EventCreated, QuestionID: created.ID, Question: ptr(toDomain(created))})
	return created, nil
}

func validateCreate(req CreateRequest) (repository.InsertQuestionParams, error) {
	switch {
	case req.Question == nil || strings.TrimSpace(*req.Question) == "":
		return repository.InsertQuestionParams{}, fmt.Errorf("%w: question", ErrMissingField)
	case req.Answer == nil || strings.TrimSpace(*req.Answer) == "":
		return repository.InsertQuestionParams{}, fmt.Errorf("%w: answer", ErrMissingField)
	case req.Category == nil || *req.Category <= 0:
		return repository.InsertQuestionParams{}, fmt.Errorf("%w: category", ErrMissingField)
	case req.Difficulty == nil || *req.Difficulty <= 0:
		return repository.InsertQuestionParams{}, fmt.Errorf("%w: difficulty", ErrMissingField)
	}
	return repository.InsertQuestionParams{
		Question:   *req.Question,
		Answer:     *req.Answer,
		Category:   int64(*req.Category),
		Difficulty: int(*req.Difficulty),
	}, nil
}

// Delete removes a question by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteQuestion(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: question %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: delete question %d: %v", ErrUnprocessable, id, err)
	}

	s.publish(ctx, Event{Type: EventDeleted, QuestionID: id})
	return nil
}

// publish is best effort; a lost event never fails the write that caused it.
func (s *Service) publish(ctx context.Context, evt Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", evt.Type).Int64("question_id", evt.QuestionID).Msg("publish question event failed")
	}
}

func ptr[T any](v T) *T { return &v }
