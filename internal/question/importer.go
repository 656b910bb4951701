package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/question/external"
)

// OpenTDBSource is implemented by external.OpenTDBClient.
type OpenTDBSource interface {
	Fetch(ctx context.Context, q external.OpenTDBQuery) ([]external.OpenTDBQuestion, error)
}

// TriviaSource is implemented by external.TriviaAPIClient.
type TriviaSource interface {
	Fetch(ctx context.Context, amount int, category, difficulty string) ([]external.TriviaAPIQuestion, error)
}

// candidate is an externally sourced question before category resolution.
// CategoryID is set when the provider was asked for a specific category.
type candidate struct {
	Question   string
	Answer     string
	Category   string
	CategoryID int64
	Difficulty string
	Source     string
}

// ImportOptions controls one import run. An empty Category imports from any
// provider category and maps each question by name.
type ImportOptions struct {
	Amount   int
	Category string
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Importer seeds the bank from public trivia APIs. Questions whose category
// does not map onto an existing category, or whose text is already stored,
// are skipped.
type Importer struct {
	store     Store
	opentdb   OpenTDBSource
	triviaAPI TriviaSource
	logger    zerolog.Logger
}

// NewImporter builds an importer; either provider may be nil.
func NewImporter(store Store, opentdb OpenTDBSource, trivia TriviaSource, logger zerolog.Logger) *Importer {
	return &Importer{
		store:     store,
		opentdb:   opentdb,
		triviaAPI: trivia,
		logger:    logger.With().Str("component", "question_importer").Logger(),
	}
}

// Import fetches up to opts.Amount questions from every configured provider and inserts the usable ones.
func (im *Importer) Import(ctx context.Context, opts ImportOptions) (ImportResult, error) {
	categories, err := im.store.ListCategories(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list categories: %w", err)
	}

	var target *repository.Category
	if opts.Category != "" {
		for i := range categories {
			if strings.EqualFold(categories[i].Type, strings.TrimSpace(opts.Category)) {
				target = &categories[i]
				break
			}
		}
		if target == nil {
			return ImportResult{}, fmt.Errorf("unknown category %q", opts.Category)
		}
	}

	candidates := im.fetchOpenTDB(ctx, opts.Amount, target)
	candidates = append(candidates, im.fetchTriviaAPI(ctx, opts.Amount, target)...)

	var res ImportResult
	for _, c := range candidates {
		categoryID, ok := c.CategoryID, c.CategoryID > 0
		if !ok {
			categoryID, ok = matchCategory(categories, c.Category)
		}
		if !ok || strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			res.Skipped++
			continue
		}
		dup, err := im.exists(ctx, c.Question)
		if err != nil {
			return res, err
		}
		if dup {
			res.Skipped++
			continue
		}
		if _, err := im.store.InsertQuestion(ctx, repository.InsertQuestionParams{
			Question:   c.Question,
			Answer:     c.Answer,
			Category:   categoryID,
			Difficulty: difficultyLevel(c.Difficulty),
		}); err != nil {
			return res, fmt.Errorf("insert %s question: %w", c.Source, err)
		}
		res.Imported++
	}

	im.logger.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import finished")
	return res, nil
}

func (im *Importer) fetchOpenTDB(ctx context.Context, amount int, target *repository.Category) []candidate {
	if im.opentdb == nil {
		return nil
	}
	q := external.OpenTDBQuery{Amount: amount}
	var categoryID int64
	if target != nil {
		id, ok := external.OpenTDBCategoryID(target.Type)
		if !ok {
			im.logger.Info().Str("category", target.Type).Msg("opentdb has no matching category")
			return nil
		}
		q.Category, categoryID = id, target.ID
	}

	rows, err := im.opentdb.Fetch(ctx, q)
	if err != nil {
		im.logger.Warn().Err(err).Msg("opentdb fetch failed")
		return nil
	}
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, candidate{Question: r.Question, Answer: r.CorrectAnswer, Category: r.Category, CategoryID: categoryID, Difficulty: r.Difficulty, Source: "opentdb"})
	}
	return out
}

func (im *Importer) fetchTriviaAPI(ctx context.Context, amount int, target *repository.Category) []candidate {
	if im.triviaAPI == nil {
		return nil
	}
	var (
		slug       string
		categoryID int64
	)
	if target != nil {
		var ok bool
		if slug, ok = external.TriviaAPICategory(target.Type); !ok {
			im.logger.Info().Str("category", target.Type).Msg("triviaapi has no matching category")
			return nil
		}
		categoryID = target.ID
	}

	rows, err := im.triviaAPI.Fetch(ctx, amount, slug, "")
	if err != nil {
		im.logger.Warn().Err(err).Msg("triviaapi fetch failed")
		return nil
	}
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, candidate{Question: r.Question, Answer: r.Correct, Category: r.Category, CategoryID: categoryID, Difficulty: r.Difficulty, Source: "triviaapi"})
	}
	return out
}

func (im *Importer) exists(ctx context.Context, text string) (bool, error) {
	matches, err := im.store.SearchQuestions(ctx, text)
	if err != nil {
		return false, fmt.Errorf("dedup search: %w", err)
	}
	for _, m := range matches {
		if strings.EqualFold(m.Question, text) {
			return true, nil
		}
	}
	return false, nil
}

// matchCategory maps an external category name ("Science & Nature",
// "Entertainment: Film", "history") onto a stored category by prefix.
func matchCategory(categories []repository.Category, name string) (int64, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}
	for _, c := range categories {
		if strings.HasPrefix(name, strings.ToLower(c.Type)) {
			return c.ID, true
		}
	}
	return 0, false
}

func difficultyLevel(d string) int {
	switch strings.ToLower(d) {
	case "medium":
		return 2
	case "hard":
		return 3
	default:
		return 1
	}
}
