package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/curvefit/internal/auth"
	"github.com/HerbHall/curvefit/internal/config"
	"github.com/HerbHall/curvefit/internal/fitting"
	"github.com/HerbHall/curvefit/internal/registry"
	"github.com/HerbHall/curvefit/internal/server"
	"github.com/HerbHall/curvefit/pkg/plugin"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-32bytes-long!!"

// testEnv wires the registry, the fitting plugin and the full middleware
// chain. A non-nil tokens enables bearer auth.
func testEnv(t *testing.T, tokens *auth.TokenService) http.Handler {
	t.Helper()

	v, err := server.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg := config.New(v)
	logger := zap.NewNop()

	reg := registry.New(logger)
	if err := reg.Register(fitting.New()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err = reg.InitAll(context.Background(), func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config: cfg.Sub("plugins." + name),
			Logger: logger.Named(name),
		}
	})
	if err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	opts := server.Options{}
	if tokens != nil {
		opts.Auth = auth.AuthMiddleware(tokens)
	}
	return server.New("127.0.0.1:0", reg, logger, nil, opts).Handler()
}

func post(h http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Malformed JSON Tests
// =============================================================================

func TestMalformedJSON(t *testing.T) {
	h := testEnv(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"truncated array", `{"x":[1,2,3],"y":[1,2`},
		{"trailing comma", `{"x":[1,2,],"y":[1,2]}`},
		{"single quotes", `{'x':[1,2],'y':[1,2]}`},
		{"bare array", `[1,2,3]`},
		{"plain text", `fit these please`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, "/api/v1/fitting/fit", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

// =============================================================================
// Empty and Null Inputs
// =============================================================================

func TestEmptyAndNullInputs(t *testing.T) {
	h := testEnv(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null x and y", `{"x":null,"y":null}`},
		{"empty arrays", `{"x":[],"y":[]}`},
		{"null y only", `{"x":[1,2],"y":null}`},
		{"empty type name", `{"x":[1,2],"y":[1,2],"types":[""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, "/api/v1/fitting/fit", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

// =============================================================================
// Numeric Boundaries
// =============================================================================

func TestNumericBoundaries(t *testing.T) {
	h := testEnv(t, nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"overflowing literal", `{"x":[1,1e400],"y":[1,2]}`, http.StatusBadRequest},
		{"huge but finite", `{"x":[1e308,-1e308,0],"y":[1,2,3]}`, http.StatusOK},
		{"tiny values", `{"x":[1e-300,2e-300,3e-300],"y":[1,2,3]}`, http.StatusOK},
		{"negative zero", `{"x":[-0,1,2],"y":[0,1,2],"types":["linear"]}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, "/api/v1/fitting/fit", tt.body, nil)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}
			// Whatever the outcome, the body must be valid JSON (no NaN/Inf leaks).
			if !json.Valid(w.Body.Bytes()) {
				t.Errorf("response is not valid JSON: %s", w.Body.String())
			}
		})
	}
}

// =============================================================================
// Oversized and Nested Payloads
// =============================================================================

func TestOversizedPayloads(t *testing.T) {
	h := testEnv(t, nil)

	body := `{"x":[` + strings.Repeat("1,", 1<<20) + `1],"y":[1,2]}`
	w := post(h, "/api/v1/fitting/fit", body, nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestTooManySamples(t *testing.T) {
	h := testEnv(t, nil)

	xs := strings.TrimSuffix(strings.Repeat("1,", 10001), ",")
	body := `{"x":[` + xs + `],"y":[` + xs + `]}`
	w := post(h, "/api/v1/fitting/fit", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeeplyNestedJSON(t *testing.T) {
	h := testEnv(t, nil)

	depth := 1000
	body := `{"x":` + strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth) + `,"y":[1]}`

	w := post(h, "/api/v1/fitting/fit", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// =============================================================================
// Type Coercion Tests
// =============================================================================

func TestTypeCoercion(t *testing.T) {
	h := testEnv(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"string samples", `{"x":["1","2"],"y":[1,2]}`},
		{"boolean samples", `{"x":[true,false],"y":[1,2]}`},
		{"object where array expected", `{"x":{"0":1},"y":[1,2]}`},
		{"number where types expected", `{"x":[1,2],"y":[1,2],"types":3}`},
		{"unicode type name", `{"x":[1,2],"y":[1,2],"types":["líneal"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, "/api/v1/fitting/fit", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

// =============================================================================
// Response Format Validation
// =============================================================================

func TestErrorResponseFormat(t *testing.T) {
	h := testEnv(t, nil)

	w := post(h, "/api/v1/fitting/fit", `{"x":[1,2,3],"y":[1,2]}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	body, _ := io.ReadAll(w.Body)
	var p server.Problem
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("error response is not a problem document: %s", body)
	}
	if p.Type != server.ProblemTypeBadRequest || p.Status != http.StatusBadRequest {
		t.Errorf("problem = %+v", p)
	}
	if p.Instance != "/api/v1/fitting/fit" {
		t.Errorf("instance = %q, want /api/v1/fitting/fit", p.Instance)
	}
	if !strings.Contains(p.Detail, "equal length") {
		t.Errorf("detail = %q, want a length mismatch message", p.Detail)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on error responses")
	}
}

// =============================================================================
// End-to-end
// =============================================================================

func TestFitEndToEnd(t *testing.T) {
	h := testEnv(t, nil)

	w := post(h, "/api/v1/fitting/fit", `{"x":[1,2,3,4],"y":[2,8,18,32],"types":["power","linear"]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []struct {
			Type     string `json:"type"`
			Equation string `json:"equation"`
		} `json:"results"`
		BestType *string `json:"bestType"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].Type != "power" || resp.Results[1].Type != "linear" {
		t.Fatalf("results = %+v, want power then linear", resp.Results)
	}
	if resp.Results[0].Equation != "y = 2 x^2" {
		t.Errorf("power equation = %q, want %q", resp.Results[0].Equation, "y = 2 x^2")
	}
	if resp.BestType == nil || *resp.BestType != "power" {
		t.Errorf("bestType = %v, want power", resp.BestType)
	}
}

func TestAuthRequiredWhenConfigured(t *testing.T) {
	tokens := auth.NewTokenService([]byte(testSecret), time.Hour)
	h := testEnv(t, tokens)

	body := `{"x":[1,2,3],"y":[2,4,6]}`
	if w := post(h, "/api/v1/fitting/fit", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", w.Code)
	}

	token, err := tokens.IssueAccessToken("tester", 0)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	hdr := http.Header{"Authorization": []string{"Bearer " + token}}
	if w := post(h, "/api/v1/fitting/fit", body, hdr); w.Code != http.StatusOK {
		t.Fatalf("with token: status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CF_SERVER_PORT", "9191")
	t.Setenv("CF_PLUGINS_FITTING_MAX_SAMPLES", "77")

	v, err := server.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, err := server.ServerConfig(v)
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.Port)
	}
	// Plugins see env overrides through their scoped section.
	if got := config.New(v).Sub("plugins.fitting").GetInt("max_samples"); got != 77 {
		t.Errorf("plugins.fitting max_samples = %d, want 77", got)
	}
}
