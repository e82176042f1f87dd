package fitting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/HerbHall/curvefit/internal/fitting/regression"
	"github.com/HerbHall/curvefit/pkg/curve"
	"go.uber.org/zap"
)

// Service runs fit batches for every transport (HTTP, WebSocket, CLI).
// It is safe for concurrent use.
type Service struct {
	cfg    FittingConfig
	logger *zap.Logger

	batches  atomic.Int64
	rejected atomic.Int64
}

// NewService creates a Service with the given limits.
func NewService(cfg FittingConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, logger: logger}
}

// Fit validates req, fits every requested family and returns the response.
// A returned error wraps regression.ErrRequestShape unless ctx was cancelled
// before work began.
func (s *Service) Fit(ctx context.Context, req curve.FitRequest) (*curve.FitResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n := len(req.X); s.cfg.MaxSamples > 0 && n > s.cfg.MaxSamples {
		s.reject()
		return nil, fmt.Errorf("%w: %d samples exceed the limit of %d", regression.ErrRequestShape, n, s.cfg.MaxSamples)
	}

	samples, models, err := regression.Prepare(req)
	if err != nil {
		s.reject()
		s.logger.Debug("fit request rejected", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	rep := regression.Fit(samples, models)
	elapsed := time.Since(start)

	s.batches.Add(1)
	s.observe(&rep, elapsed)

	fields := []zap.Field{
		zap.Int("samples", samples.Len()),
		zap.Int("models", len(models)),
		zap.Int("failures", rep.Failures()),
		zap.Duration("duration", elapsed),
	}
	if rep.HasBest {
		fields = append(fields, zap.String("best", string(rep.Best)))
	}
	if s.cfg.SlowFitThreshold > 0 && elapsed > s.cfg.SlowFitThreshold {
		s.logger.Warn("slow fit", fields...)
	} else {
		s.logger.Debug("fit complete", fields...)
	}

	return rep.Response(), nil
}

// Models returns the catalogue of supported model families.
func (s *Service) Models() []curve.ModelInfo {
	return regression.Catalogue()
}

// Stats reports how many batches were fitted and rejected since start.
func (s *Service) Stats() (fitted, rejected int64) {
	return s.batches.Load(), s.rejected.Load()
}

func (s *Service) reject() {
	s.rejected.Add(1)
	fitRequestsTotal.WithLabelValues(outcomeRejected).Inc()
}

func (s *Service) observe(rep *regression.Report, elapsed time.Duration) {
	fitDuration.Observe(elapsed.Seconds())

	outcome := outcomeOK
	if rep.HasBest {
		bestModelTotal.WithLabelValues(string(rep.Best)).Inc()
	} else {
		outcome = outcomeNoBest
	}
	fitRequestsTotal.WithLabelValues(outcome).Inc()

	for i := range rep.Results {
		r := &rep.Results[i]
		label := modelOK
		switch {
		case r.OK():
		case errors.Is(r.Err, regression.ErrDomain):
			label = modelDomain
		default:
			label = modelDegenerate
		}
		modelFitsTotal.WithLabelValues(string(r.Model), label).Inc()
	}
}
