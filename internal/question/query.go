package question

import (
	"context"
	"fmt"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// Mode selects which predicate a Filter applies. Modes are mutually exclusive.
type Mode int

const (
	ModeAll Mode = iota
	ModeCategory
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeCategory:
		return "category"
	case ModeSearch:
		return "search"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Filter describes one question query.
type Filter struct {
	Mode       Mode
	CategoryID int64
	// Term is matched as a case-insensitive substring of the question text.
	// The empty term matches every question.
	Term string
}

func All() Filter { return Filter{Mode: ModeAll} }
func ByCategory(id int64) Filter { return Filter{Mode: ModeCategory, CategoryID: id} }
func BySearchTerm(term string) Filter { return Filter{Mode: ModeSearch, Term: term} }

// Result is an ordered candidate set ready for pagination.
type Result struct {
	Questions []repository.Question
	// Category is set for ModeCategory.
	Category *repository.Category
}

// Query runs f against the store. A missing category is ErrNotFound; an
// existing category with no questions is an empty, successful result.
func (s *Service) Query(ctx context.Context, f Filter) (Result, error) {
	switch f.Mode {
	case ModeAll:
		rows, err := s.store.ListQuestions(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("%w: list questions: %v", ErrUnprocessable, err)
		}
		return Result{Questions: rows}, nil

	case ModeCategory:
		category, err := s.Category(ctx, f.CategoryID)
		if err != nil {
			return Result{}, err
		}
		rows, err := s.store.ListQuestionsByCategory(ctx, f.CategoryID)
		if err != nil {
			return Result{}, fmt.Errorf("%w: questions for category %d: %v", ErrUnprocessable, f.CategoryID, err)
		}
		return Result{Questions: rows, Category: &category}, nil

	case ModeSearch:
		rows, err := s.store.SearchQuestions(ctx, f.Term)
		if err != nil {
			return Result{}, fmt.Errorf("%w: search %q: %v", ErrUnprocessable, f.Term, err)
		}
		return Result{Questions: rows}, nil

	default:
		return Result{}, fmt.Errorf("%w: unknown filter mode %s", ErrBadRequest, f.Mode)
	}
}
