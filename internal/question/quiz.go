package question

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// Rand is the randomness source for quiz selection. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector picks the next unseen quiz question.
type Selector struct {
	rand Rand
}

func NewSelector(r Rand) *Selector {
	if r == nil {
		r = globalRand{}
	}
	return &Selector{rand: r}
}

// Next returns a uniformly random question from pool whose id is not in
// excluded. ok is false once every question in the pool has been asked.
// An empty pool is an error: the scope itself is unusable.
func (s *Selector) Next(pool []repository.Question, excluded []int64) (q repository.Question, ok bool, err error) {
	if len(pool) == 0 {
		return repository.Question{}, false, ErrEmptyPool
	}

	seen := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		seen[id] = struct{}{}
	}

	remaining := make([]repository.Question, 0, len(pool))
	for _, candidate := range pool {
		if _, asked := seen[candidate.ID]; !asked {
			remaining = append(remaining, candidate)
		}
	}
	if len(remaining) == 0 {
		return repository.Question{}, false, nil
	}
	return remaining[s.rand.IntN(len(remaining))], true, nil
}

// NextQuizQuestion validates the request, resolves the candidate pool for the
// requested scope and selects the next question.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (repository.Question, bool, error) {
	if req.PreviousQuestions == nil || req.QuizCategory == nil {
		quizSelections.WithLabelValues(outcomeBadRequest).Inc()
		return repository.Question{}, false, fmt.Errorf("%w: previous_questions and quiz_category are required", ErrBadRequest)
	}

	var (
		pool []repository.Question
		err  error
	)
	categoryID := int64(req.QuizCategory.ID)
	if categoryID == AllCategories {
		pool, err = s.store.ListQuestions(ctx)
	} else {
		pool, err = s.store.ListQuestionsByCategory(ctx, categoryID)
	}
	if err != nil {
		return repository.Question{}, false, fmt.Errorf("%w: quiz pool for category %d: %v", ErrUnprocessable, categoryID, err)
	}

	q, ok, err := s.selector.Next(pool, *req.PreviousQuestions)
	if err != nil {
		quizSelections.WithLabelValues(outcomeEmptyPool).Inc()
		return repository.Question{}, false, fmt.Errorf("%w: category %d: %w", ErrUnprocessable, categoryID, err)
	}
	if !ok {
		quizSelections.WithLabelValues(outcomeExhausted).Inc()
		s.logger.Debug().Int64("category", categoryID).Int("asked", len(*req.PreviousQuestions)).Msg("quiz exhausted")
		return repository.Question{}, false, nil
	}
	quizSelections.WithLabelValues(outcomeSelected).Inc()
	return q, true, nil
}
