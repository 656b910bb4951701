package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool (or pgx.Tx) the Postgres store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore serves questions and categories from Postgres.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListQuestions(ctx context.Context) ([]Question, error) {
	return s.queryQuestions(ctx, nil)
}

func (s *PostgresStore) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error) {
	p := whereCategory(categoryID)
	return s.queryQuestions(ctx, &p)
}

func (s *PostgresStore) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	p := whereSearch(postgresDialect, term)
	return s.queryQuestions(ctx, &p)
}

func (s *PostgresStore) queryQuestions(ctx context.Context, p *predicate) ([]Question, error) {
	query, args := selectQuestions(postgresDialect, p)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[Question])
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return questions, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, "SELECT id, type FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[Category])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := s.db.QueryRow(ctx, "SELECT id, type FROM categories WHERE id = $1", id).Scan(&c.ID, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (s *PostgresStore) InsertQuestion(ctx context.Context, params InsertQuestionParams) (Question, error) {
	var q Question
	err := s.db.QueryRow(ctx,
		"INSERT INTO questions (question, answer, category, difficulty) VALUES ($1, $2, $3, $4) RETURNING "+questionColumns,
		params.Question, params.Answer, params.Category, params.Difficulty,
	).Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Question{}, fmt.Errorf("%w: %d", ErrUnknownCategory, params.Category)
		}
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity when the underlying handle supports it.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
