package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSelected   = "selected"
	outcomeExhausted  = "exhausted"
	outcomeEmptyPool  = "empty_pool"
	outcomeBadRequest = "bad_request"
)

var quizSelections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trivia",
	Name:      "quiz_selections_total",
	Help:      "Quiz next-question requests by outcome.",
}, []string{"outcome"})
