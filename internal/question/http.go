package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
	"github.com/gokatarajesh/trivia-api/pkg/pagination"
)

// HTTPHandler exposes the question bank REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a question HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts every route on mux, including the JSON 404 fallback.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/categories", h.HandleCategories)
	mux.HandleFunc("/categories/{id}/questions", h.HandleCategoryQuestions)
	mux.HandleFunc("/questions", h.HandleQuestions)
	mux.HandleFunc("/questions/search", h.HandleSearch)
	mux.HandleFunc("/questions/{id}", h.HandleQuestion)
	mux.HandleFunc("/quizzes", h.HandleQuiz)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})
}

// HandleCategories handles GET /categories
func (h *HTTPHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":    true,
		"categories": toCategoryMap(categories),
	})
}

// HandleQuestions dispatches GET (paginated listing) and POST (create) on /questions.
func (h *HTTPHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listQuestions(w, r)
	case http.MethodPost:
		h.createQuestion(w, r)
	default:
		httperrors.RespondMethodNotAllowed(w)
	}
}

// listQuestions handles GET /questions?page=N. A page past the end is 404.
func (h *HTTPHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	result, err := h.svc.Query(ctx, All())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	current := pagination.Paginate(result.Questions, page, pagination.PageSize)
	if len(current) == 0 {
		httperrors.RespondNotFound(w)
		return
	}

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"questions":       toDomainList(current),
		"total_questions": len(result.Questions),
		"categories":      toCategoryMap(categories),
	})
}

// createQuestion handles POST /questions
func (h *HTTPHandler) createQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r).Debug().Err(err).Msg("invalid create payload")
		httperrors.RespondUnprocessable(w)
		return
	}

	created, err := h.svc.Create(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	result, err := h.svc.Query(ctx, All())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"created":         created.ID,
		"questions":       toDomainList(pagination.Paginate(result.Questions, page, pagination.PageSize)),
		"total_questions": len(result.Questions),
	})
}

// HandleQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"deleted": id,
	})
}

// HandleSearch handles POST /questions/search. An empty match set is a success.
func (h *HTTPHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r).Debug().Err(err).Msg("invalid search payload")
		httperrors.RespondUnprocessable(w)
		return
	}
	term := ""
	if req.SearchTerm != nil {
		term = *req.SearchTerm
	}

	result, err := h.svc.Query(r.Context(), BySearchTerm(term))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"questions":       toDomainList(pagination.Paginate(result.Questions, page, pagination.PageSize)),
		"total_questions": len(result.Questions),
	})
}

// HandleCategoryQuestions handles GET /categories/{id}/questions?page=N
func (h *HTTPHandler) HandleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.svc.Query(r.Context(), ByCategory(id))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"questions":        toDomainList(pagination.Paginate(result.Questions, page, pagination.PageSize)),
		"current_category": result.Category.Type,
		"total_questions":  len(result.Questions),
	})
}

// HandleQuiz handles POST /quizzes
func (h *HTTPHandler) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r).Debug().Err(err).Msg("invalid quiz payload")
		httperrors.RespondBadRequest(w)
		return
	}

	q, ok, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, map[string]interface{}{
			"success":  false,
			"question": false,
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"question": toDomain(q),
	})
}

// respondServiceError maps service error kinds onto the error envelope.
func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		h.log(r).Debug().Err(err).Msg("bad request")
		httperrors.RespondBadRequest(w)
	case errors.Is(err, ErrNotFound):
		h.log(r).Debug().Err(err).Msg("not found")
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrUnprocessable):
		h.log(r).Warn().Err(err).Msg("unprocessable")
		httperrors.RespondUnprocessable(w)
	default:
		h.log(r).Error().Err(err).Msg("unexpected service error")
		httperrors.RespondInternalError(w)
	}
}

// log prefers the request-scoped logger (carries request_id) over the handler's own.
func (h *HTTPHandler) log(r *http.Request) *zerolog.Logger {
	logger := logging.FromContext(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = h.logger
	}
	logger = logger.With().Str("path", r.URL.Path).Logger()
	return &logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
