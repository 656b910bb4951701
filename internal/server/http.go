package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/question"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Pinger is a dependency that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer wires the trivia routes plus base routes (health, metrics).
// feedHandler can be nil when the change feed is disabled.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, questions *question.HTTPHandler, feedHandler http.HandlerFunc, deps ...Pinger) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg, logger, questions, feedHandler, deps...),
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(cfg *config.App, logger zerolog.Logger, questions *question.HTTPHandler, feedHandler http.HandlerFunc, deps ...Pinger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.MsgUpstreamError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if feedHandler != nil {
		mux.HandleFunc("/ws/questions", feedHandler)
	} else {
		mux.HandleFunc("/ws/questions", func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondError(w, http.StatusNotImplemented, "change feed requires REDIS_ADDR")
		})
	}

	questions.Register(mux)

	// metrics must sit directly on the mux so it can read r.Pattern after routing
	var h http.Handler = mux
	h = instrument(h)
	h = cors(cfg.CORS, h)
	h = recoverPanics(h)
	h = requestContext(logger, h)
	return h
}

func pingDependencies(ctx context.Context, deps []Pinger) error {
	for _, d := range deps {
		if d == nil {
			continue
		}
		if err := d.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
