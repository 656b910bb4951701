package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTDBFetchUnescapesEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("amount"))
		assert.Equal(t, "easy", r.URL.Query().Get("difficulty"))
		assert.Equal(t, "17", r.URL.Query().Get("category"))
		assert.Empty(t, r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[
			{"category":"Science &amp; Nature","type":"multiple","difficulty":"easy",
			 "question":"What&#039;s H&quot;2&quot;O?","correct_answer":"Water","incorrect_answers":["Fire &amp; Ice"]}
		]}`))
	}))
	defer srv.Close()

	client := NewOpenTDBClient(srv.URL, srv.Client())
	got, err := client.Fetch(context.Background(), OpenTDBQuery{Amount: 2, Category: 17, Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Science & Nature", got[0].Category)
	assert.Equal(t, `What's H"2"O?`, got[0].Question)
	assert.Equal(t, []string{"Fire & Ice"}, got[0].IncorrectAnswers)
}

func TestOpenTDBFetchResponseCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"response_code":5,"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenTDBClient(srv.URL, srv.Client()).Fetch(context.Background(), OpenTDBQuery{Amount: 5})
	var apiErr *OpenTDBError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 5, apiErr.Code)
	assert.EqualError(t, err, "opentdb: rate limited")
}

func TestCategoryLookups(t *testing.T) {
	id, ok := OpenTDBCategoryID(" Science ")
	assert.True(t, ok)
	assert.Equal(t, 17, id)

	slug, ok := TriviaAPICategory("Entertainment")
	assert.True(t, ok)
	assert.Equal(t, "film_and_tv", slug)

	_, ok = OpenTDBCategoryID("Mythology")
	assert.False(t, ok)
	_, ok = TriviaAPICategory("")
	assert.False(t, ok)
}

func TestTriviaAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "history", r.URL.Query().Get("categories"))
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`[{"id":"abc","category":"History","question":"Who?","difficulty":"hard","correctAnswer":"Me","incorrectAnswers":["You"]}]`))
	}))
	defer srv.Close()

	got, err := NewTriviaAPIClient(srv.URL, "key", srv.Client()).Fetch(context.Background(), 3, "history", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Me", got[0].Correct)
}

func TestTriviaAPINon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewTriviaAPIClient(srv.URL, "", srv.Client()).Fetch(context.Background(), 1, "", "")
	assert.ErrorContains(t, err, "non-200: 429")
}
