package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsServe(cfg CORSConfig, method, origin string, preflight bool) *httptest.ResponseRecorder {
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/v1/view", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_Origins(t *testing.T) {
	shop := CORSConfig{
		AllowedOrigins:   []string{"https://shop.example.com", "https://admin.example.com"},
		AllowCredentials: true,
		Environment:      "production",
	}
	open := CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}

	tests := []struct {
		name            string
		cfg             CORSConfig
		origin          string
		wantOrigin      string
		wantCredentials bool
	}{
		{"listed origin is echoed", shop, "https://shop.example.com", "https://shop.example.com", true},
		{"second listed origin", shop, "https://admin.example.com", "https://admin.example.com", true},
		{"unlisted origin rejected", shop, "https://evil.example.com", "", false},
		{"no origin header", shop, "", "", false},
		{"wildcard has no credentials", open, "https://anything.example.com", "*", false},
		{"development allows any", CORSConfig{Environment: "development"}, "http://localhost:5173", "*", false},
		{
			"listed origin wins over wildcard",
			CORSConfig{AllowedOrigins: []string{"*", "https://shop.example.com"}, AllowCredentials: true},
			"https://shop.example.com", "https://shop.example.com", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := corsServe(tt.cfg, http.MethodGet, tt.origin, false)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials") == "true")
			assert.Equal(t, "Origin", rec.Header().Get("Vary"))
			if tt.wantOrigin == "" {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCORS_PreflightDefaults(t *testing.T) {
	rec := corsServe(CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodOptions, "https://shop.example.com", true)

	require.Equal(t, http.StatusNoContent, rec.Code)
	h := rec.Header()
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID, X-Session-ID", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", h.Get("Access-Control-Max-Age"))
	assert.Empty(t, h.Get("Access-Control-Expose-Headers"))
}

func TestCORS_PreflightCustom(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"https://shop.example.com"},
		AllowedMethods: []string{"GET", "PUT"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{SessionHeader},
		MaxAge:         60,
	}
	rec := corsServe(cfg, http.MethodOptions, "https://shop.example.com", true)

	require.Equal(t, http.StatusNoContent, rec.Code)
	h := rec.Header()
	assert.Equal(t, "GET, PUT", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Session-ID", h.Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "60", h.Get("Access-Control-Max-Age"))
}

func TestCORS_PlainOptionsReachesHandler(t *testing.T) {
	rec := corsServe(CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodOptions, "https://shop.example.com", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
