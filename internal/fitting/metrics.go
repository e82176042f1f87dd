package fitting

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	fitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curvefit_fit_requests_total",
			Help: "Fit batches processed, by outcome.",
		},
		[]string{"outcome"},
	)
	modelFitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curvefit_model_fits_total",
			Help: "Per-model fit attempts, by model and outcome.",
		},
		[]string{"model", "outcome"},
	)
	bestModelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curvefit_best_model_total",
			Help: "Batches in which the model was selected as best.",
		},
		[]string{"model"},
	)
	fitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curvefit_fit_duration_seconds",
			Help:    "Time spent fitting one batch.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .25, .5, 1},
		},
	)
)

func init() {
	prometheus.MustRegister(fitRequestsTotal)
	prometheus.MustRegister(modelFitsTotal)
	prometheus.MustRegister(bestModelTotal)
	prometheus.MustRegister(fitDuration)
}

// Batch outcomes.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeNoBest   = "no_best"
)

// Per-model outcomes.
const (
	modelOK         = "ok"
	modelDomain     = "domain"
	modelDegenerate = "degenerate"
)
