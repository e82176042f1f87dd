package fitting

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HerbHall/curvefit/internal/auth"
	"github.com/HerbHall/curvefit/internal/fitting/regression"
	"github.com/HerbHall/curvefit/internal/server"
	"github.com/HerbHall/curvefit/pkg/curve"
	"github.com/HerbHall/curvefit/pkg/plugin"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/fit", Handler: m.handleFit},
		{Method: "GET", Path: "/models", Handler: m.handleModels},
	}
}

// handleFit fits the requested model families to the posted samples.
//
//	@Summary		Fit curves
//	@Description	Fits linear, quadratic, exponential, logarithmic and power models to paired samples and explains each fit.
//	@Tags			fitting
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request body curve.FitRequest true "Samples and model types"
//	@Success		200 {object} curve.FitResponse
//	@Failure		400 {object} server.Problem
//	@Failure		413 {object} server.Problem
//	@Router			/fitting/fit [post]
func (m *Module) handleFit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, m.cfg.MaxBodyBytes)

	var req curve.FitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.PayloadTooLarge(w, "request body exceeds the configured limit", r.URL.Path)
			return
		}
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}

	resp, err := m.service.Fit(r.Context(), req)
	if err != nil {
		if regression.IsRequestError(err) {
			m.logger.Debug("fit request rejected",
				zap.String("subject", subject(r)),
				zap.Error(err),
			)
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
		m.logger.Error("fit failed", zap.Error(err))
		server.InternalError(w, "failed to fit request", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleModels lists the supported model families.
//
//	@Summary		List models
//	@Description	Returns each model family with its formula, domain requirement and table columns.
//	@Tags			fitting
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200 {array} curve.ModelInfo
//	@Router			/fitting/models [get]
func (m *Module) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.service.Models())
}

// -- helpers --

// subject names the authenticated caller, or "anonymous" when auth is off.
func subject(r *http.Request) string {
	if c := auth.ClaimsFromContext(r.Context()); c != nil {
		return c.Subject
	}
	return "anonymous"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
