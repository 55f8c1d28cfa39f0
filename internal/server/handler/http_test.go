package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewHTTPHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })

	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(NewHTTPHandler("/mcp", mcp, ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Post(srv.URL+"/mcp", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/mcp", entries[1].ContextMap()["path"])
	assert.EqualValues(t, http.StatusAccepted, entries[1].ContextMap()["status"])
}

func TestNewHTTPHandler_BearerAuth(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(NewHTTPHandler("/mcp", mcp, "s3cret"))
	defer srv.Close()

	tests := []struct {
		name       string
		method     string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing token", method: http.MethodPost, wantStatus: http.StatusUnauthorized, wantError: "unauthorized"},
		{name: "wrong scheme", method: http.MethodPost, header: "Basic s3cret", wantStatus: http.StatusUnauthorized, wantError: "unauthorized"},
		{name: "wrong token", method: http.MethodPost, header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantError: "invalid_token"},
		{name: "valid token", method: http.MethodPost, header: "Bearer s3cret", wantStatus: http.StatusAccepted},
		{name: "preflight skips auth", method: http.MethodOptions, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+"/mcp", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.wantError == "" {
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
			assert.Contains(t, resp.Header.Get("WWW-Authenticate"), tt.wantError)
		})
	}

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
