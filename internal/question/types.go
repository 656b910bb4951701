package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// AllCategories is the quiz category id clients send to play across every category.
const AllCategories = 0

// Question represents the normalized payload delivered to clients.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// CategoryMap is the id -> type mapping returned by listing endpoints.
type CategoryMap map[string]string

// FlexInt accepts both JSON numbers and numeric strings ("3"); the web client
// sends select-box values as strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// CreateRequest is the body of POST /questions. Pointers distinguish absent fields.
type CreateRequest struct {
	Question   *string  `json:"question"`
	Answer     *string  `json:"answer"`
	Category   *FlexInt `json:"category"`
	Difficulty *FlexInt `json:"difficulty"`
}

// SearchRequest is the body of POST /questions/search.
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// QuizCategory is the client's category scope; id 0 means all categories.
type QuizCategory struct {
	ID   FlexInt `json:"id"`
	Type string  `json:"type,omitempty"`
}

// QuizRequest is the body of POST /quizzes. The client resends the full
// exclusion list on every call.
type QuizRequest struct {
	PreviousQuestions *[]int64      `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
}

func toDomain(row repository.Question) Question {
	return Question{
		ID:         row.ID,
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   row.Category,
		Difficulty: row.Difficulty,
	}
}

func toDomainList(rows []repository.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}

func toCategoryMap(categories []repository.Category) CategoryMap {
	out := make(CategoryMap, len(categories))
	for _, c := range categories {
		out[strconv.FormatInt(c.ID, 10)] = c.Type
	}
	return out
}
