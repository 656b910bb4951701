package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrUnknownCategory is returned by stores that check the category reference on insert.
var ErrUnknownCategory = errors.New("repository: unknown category")

// Question is a stored trivia question row.
type Question struct {
	ID         int64  `db:"id"`
	Question   string `db:"question"`
	Answer     string `db:"answer"`
	Category   int64  `db:"category"`
	Difficulty int    `db:"difficulty"`
}

// Category is a stored category row.
type Category struct {
	ID   int64  `db:"id"`
	Type string `db:"type"`
}

// InsertQuestionParams carries the fields of a new question; the id is assigned by the store.
type InsertQuestionParams struct {
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// DefaultCategories is the category set every fresh store starts with.
var DefaultCategories = []Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}
