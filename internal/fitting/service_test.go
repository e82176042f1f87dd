package fitting

import (
	"context"
	"errors"
	"testing"

	"github.com/HerbHall/curvefit/internal/fitting/regression"
	"github.com/HerbHall/curvefit/pkg/curve"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestServiceFit_AllTypesWhenEmpty(t *testing.T) {
	svc := NewService(DefaultConfig(), zap.NewNop())

	resp, err := svc.Fit(context.Background(), curve.FitRequest{
		X: []float64{1, 2, 3, 4, 5},
		Y: []float64{6, 17, 34, 57, 86},
	})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if len(resp.Results) != len(regression.Models) {
		t.Fatalf("len(results) = %d, want %d", len(resp.Results), len(regression.Models))
	}
	for i, m := range regression.Models {
		if resp.Results[i].Type != string(m) {
			t.Errorf("results[%d].Type = %q, want %q", i, resp.Results[i].Type, m)
		}
	}
	if resp.BestType == nil || *resp.BestType != curve.TypeQuadratic {
		t.Errorf("bestType = %v, want quadratic", resp.BestType)
	}

	fitted, rejected := svc.Stats()
	if fitted != 1 || rejected != 0 {
		t.Errorf("Stats() = (%d, %d), want (1, 0)", fitted, rejected)
	}
}

func TestServiceFit_RequestErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSamples = 4
	svc := NewService(cfg, zap.NewNop())

	tests := []struct {
		name string
		req  curve.FitRequest
	}{
		{"too many samples", curve.FitRequest{X: []float64{1, 2, 3, 4, 5}, Y: []float64{1, 2, 3, 4, 5}}},
		{"mismatched", curve.FitRequest{X: []float64{1, 2}, Y: []float64{1}}},
		{"unknown type", curve.FitRequest{X: []float64{1, 2}, Y: []float64{1, 2}, Types: []string{"sine"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Fit(context.Background(), tc.req)
			if !errors.Is(err, regression.ErrRequestShape) {
				t.Errorf("Fit() error = %v, want ErrRequestShape", err)
			}
		})
	}

	if _, rejected := svc.Stats(); rejected != int64(len(tests)) {
		t.Errorf("rejected = %d, want %d", rejected, len(tests))
	}
}

func TestServiceFit_CancelledContext(t *testing.T) {
	svc := NewService(DefaultConfig(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Fit(ctx, curve.FitRequest{X: []float64{1, 2}, Y: []float64{1, 2}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Fit() error = %v, want context.Canceled", err)
	}
	if regression.IsRequestError(err) {
		t.Error("cancellation must not be reported as a request error")
	}
}

func TestServiceFit_LogsSummary(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := NewService(DefaultConfig(), zap.New(core))

	_, err := svc.Fit(context.Background(), curve.FitRequest{
		X:     []float64{1, 2, 3},
		Y:     []float64{2, 4, 6},
		Types: []string{"linear"},
	})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	entries := logs.FilterMessage("fit complete").All()
	if len(entries) != 1 {
		t.Fatalf("got %d 'fit complete' entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["best"] != "linear" {
		t.Errorf("best field = %v, want linear", fields["best"])
	}
	if fields["models"] != int64(1) {
		t.Errorf("models field = %v, want 1", fields["models"])
	}
}
