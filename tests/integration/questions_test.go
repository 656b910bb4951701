//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCategories(t *testing.T) {
	status, body := doJSON(t, http.MethodGet, "/categories", nil)
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	categories, ok := body["categories"].(map[string]interface{})
	if !ok || categories["1"] != "Science" {
		t.Fatalf("expected seeded categories, got %v", body["categories"])
	}
}

func TestQuestionLifecycle(t *testing.T) {
	id, text := createQuestion(t, 1)

	status, body := doJSON(t, http.MethodPost, "/questions/search", map[string]string{"searchTerm": text})
	if status != http.StatusOK || body["total_questions"] != float64(1) {
		t.Fatalf("search for new question: status %d body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, "/categories/1/questions", nil)
	if status != http.StatusOK || body["current_category"] != "Science" {
		t.Fatalf("category listing: status %d body %v", status, body)
	}

	deleteQuestion(t, id)

	status, body = doJSON(t, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil)
	if status != http.StatusNotFound || body["error"] != float64(404) {
		t.Fatalf("second delete: expected 404 envelope, got %d %v", status, body)
	}
}

func TestQuizNeverRepeats(t *testing.T) {
	first, _ := createQuestion(t, 3)
	second, _ := createQuestion(t, 3)
	defer deleteQuestion(t, first)
	defer deleteQuestion(t, second)

	// collect every question in the category, then ask until exhausted
	_, body := doJSON(t, http.MethodGet, "/categories/3/questions", nil)
	total := int(body["total_questions"].(float64))

	previous := []int64{}
	for i := 0; i < total; i++ {
		status, body := doJSON(t, http.MethodPost, "/quizzes", map[string]interface{}{
			"previous_questions": previous,
			"quiz_category":      map[string]interface{}{"id": 3, "type": "Geography"},
		})
		if status != http.StatusOK || body["success"] != true {
			t.Fatalf("quiz round %d: status %d body %v", i, status, body)
		}
		q := body["question"].(map[string]interface{})
		id := int64(q["id"].(float64))
		for _, p := range previous {
			if p == id {
				t.Fatalf("question %d repeated", id)
			}
		}
		previous = append(previous, id)
	}

	status, body := doJSON(t, http.MethodPost, "/quizzes", map[string]interface{}{
		"previous_questions": previous,
		"quiz_category":      map[string]interface{}{"id": 3},
	})
	if status != http.StatusOK || body["success"] != false || body["question"] != false {
		t.Fatalf("exhausted quiz: status %d body %v", status, body)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		path    string
		payload interface{}
		status  int
	}{
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound},
		{"wrong method", http.MethodPut, "/categories", nil, http.StatusMethodNotAllowed},
		{"missing answer", http.MethodPost, "/questions", map[string]interface{}{"question": "q", "category": 1, "difficulty": 1}, http.StatusUnprocessableEntity},
		{"quiz without category", http.MethodPost, "/quizzes", map[string]interface{}{"previous_questions": []int{}}, http.StatusBadRequest},
		{"unknown category", http.MethodGet, "/categories/9999/questions", nil, http.StatusNotFound},
		{"page past end", http.MethodGet, "/questions?page=100000", nil, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, tc.method, tc.path, tc.payload)
			if status != tc.status {
				t.Fatalf("expected %d, got %d body %v", tc.status, status, body)
			}
			if body["success"] != false || body["error"] != float64(tc.status) || body["message"] == "" {
				t.Fatalf("malformed error envelope: %v", body)
			}
		})
	}
}
