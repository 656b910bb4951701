package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectQuestionsUnfiltered(t *testing.T) {
	query, args := selectQuestions(postgresDialect, nil)
	assert.Equal(t, "SELECT id, question, answer, category, difficulty FROM questions ORDER BY id", query)
	assert.Empty(t, args)
}

func TestSelectQuestionsByCategory(t *testing.T) {
	p := whereCategory(4)

	query, args := selectQuestions(postgresDialect, &p)
	assert.Equal(t, "SELECT id, question, answer, category, difficulty FROM questions WHERE category = $1 ORDER BY id", query)
	assert.Equal(t, []any{int64(4)}, args)

	query, _ = selectQuestions(sqliteDialect, &p)
	assert.Contains(t, query, "WHERE category = ? ORDER BY id")
}

func TestSelectQuestionsSearch(t *testing.T) {
	p := whereSearch(postgresDialect, "Cat")
	query, args := selectQuestions(postgresDialect, &p)
	assert.Contains(t, query, `WHERE question ILIKE $1 ESCAPE '\' ORDER BY id`)
	assert.Equal(t, []any{"%Cat%"}, args)

	p = whereSearch(sqliteDialect, "")
	query, args = selectQuestions(sqliteDialect, &p)
	assert.Contains(t, query, `WHERE unicode_lower(question) LIKE unicode_lower(?) ESCAPE '\'`)
	assert.Equal(t, []any{"%%"}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
