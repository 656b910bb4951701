package external

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultOpenTDBURL = "https://opentdb.com"

// openTDBCategories maps bank category names onto OpenTDB category ids.
var openTDBCategories = map[string]int{
	"science":       17, // Science & Nature
	"art":           25,
	"geography":     22,
	"history":       23,
	"entertainment": 11, // Entertainment: Film
	"sports":        21,
}

// OpenTDBCategoryID returns the OpenTDB id for a bank category name.
func OpenTDBCategoryID(name string) (int, bool) {
	id, ok := openTDBCategories[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// OpenTDBError is a non-zero response_code from the API.
type OpenTDBError struct {
	Code int
}

func (e *OpenTDBError) Error() string {
	switch e.Code {
	case 1:
		return "opentdb: not enough questions for the query"
	case 2:
		return "opentdb: invalid parameter"
	case 5:
		return "opentdb: rate limited"
	default:
		return "opentdb: response code " + strconv.Itoa(e.Code)
	}
}

// OpenTDBQuery narrows a fetch. Zero values mean any.
type OpenTDBQuery struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string
}

func (q OpenTDBQuery) values() url.Values {
	v := url.Values{}
	v.Set("amount", strconv.Itoa(q.Amount))
	if q.Category > 0 {
		v.Set("category", strconv.Itoa(q.Category))
	}
	if q.Difficulty != "" {
		v.Set("difficulty", q.Difficulty)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	return v
}

type OpenTDBQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// OpenTDBClient talks to the Open Trivia DB. It needs no API key.
type OpenTDBClient struct {
	endpoint string
	http     *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = defaultOpenTDBURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenTDBClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api.php",
		http:     httpClient,
	}
}

// Fetch runs q and returns questions with HTML entities decoded.
func (c *OpenTDBClient) Fetch(ctx context.Context, q OpenTDBQuery) ([]OpenTDBQuestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.values().Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build opentdb request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentdb request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb status %d", resp.StatusCode)
	}

	var body struct {
		ResponseCode int               `json:"response_code"`
		Results      []OpenTDBQuestion `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	if body.ResponseCode != 0 {
		return nil, &OpenTDBError{Code: body.ResponseCode}
	}

	for i := range body.Results {
		r := &body.Results[i]
		r.Category = html.UnescapeString(r.Category)
		r.Question = html.UnescapeString(r.Question)
		r.CorrectAnswer = html.UnescapeString(r.CorrectAnswer)
		for j, a := range r.IncorrectAnswers {
			r.IncorrectAnswers[j] = html.UnescapeString(a)
		}
	}
	return body.Results, nil
}
