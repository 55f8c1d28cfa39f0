package requester

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brizzai/auto-jira/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Dispatch(t *testing.T) {
	tests := []struct {
		name           string
		endpoint       config.EndpointConfig
		descriptor     *Descriptor
		timeout        time.Duration
		serverResponse func(t *testing.T, w http.ResponseWriter, r *http.Request)
		checkResult    func(t *testing.T, result *Result[map[string]any])
	}{
		{
			name: "GET with path and query params",
			endpoint: config.EndpointConfig{
				AuthType:   config.AuthTypeBasic,
				AuthConfig: map[string]string{"username": "u", "password": "p"},
			},
			descriptor: &Descriptor{
				Path:                "/rest/agile/1.0/board/{boardId}/issue",
				Method:              http.MethodGet,
				PathParams:          map[string]any{"boardId": 84},
				QueryParams:         map[string]any{"jql": "status = Done", "fields": []string{"summary", "status"}},
				QueryStyles:         map[string]QueryStyle{"fields": QueryStyleComma},
				IsResponseAvailable: true,
			},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/rest/agile/1.0/board/84/issue", r.URL.Path)
				assert.Equal(t, "status = Done", r.URL.Query().Get("jql"))
				assert.Equal(t, "summary,status", r.URL.Query().Get("fields"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "u", user)
				assert.Equal(t, "p", pass)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{"total": 2})
			},
			checkResult: func(t *testing.T, result *Result[map[string]any]) {
				require.True(t, result.OK)
				assert.Equal(t, float64(2), result.Value["total"])
			},
		},
		{
			name: "POST with body",
			descriptor: &Descriptor{
				Path:                "/rest/agile/1.0/board",
				Method:              http.MethodPost,
				Body:                RawBody([]byte(`{"name":"scrum","type":"scrum","filterId":10040}`), "application/json"),
				IsResponseAvailable: true,
			},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{"name":"scrum","type":"scrum","filterId":10040}`, string(body))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":85,"name":"scrum"}`))
			},
			checkResult: func(t *testing.T, result *Result[map[string]any]) {
				require.True(t, result.OK)
				assert.Equal(t, http.StatusCreated, result.Status)
				assert.Equal(t, "scrum", result.Value["name"])
			},
		},
		{
			name: "endpoint headers are defaults",
			endpoint: config.EndpointConfig{
				AuthType:   config.AuthTypeBearer,
				AuthConfig: map[string]string{"token": "configured"},
				Headers:    map[string]string{"X-Atlassian-Token": "no-check", "X-Team": "default"},
			},
			descriptor: &Descriptor{
				Path:    "/rest/api/3/myself",
				Method:  http.MethodGet,
				Headers: map[string]string{"X-Team": "caller", "Authorization": "Bearer caller"},
			},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))
				assert.Equal(t, "caller", r.Header.Get("X-Team"))
				assert.Equal(t, "Bearer caller", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusOK)
			},
			checkResult: func(t *testing.T, result *Result[map[string]any]) {
				assert.True(t, result.OK)
			},
		},
		{
			name: "server error",
			descriptor: &Descriptor{
				Path:                "/rest/api/3/issue/{issueIdOrKey}",
				Method:              http.MethodDelete,
				PathParams:          map[string]any{"issueIdOrKey": "PROJ-9"},
				QueryParams:         map[string]any{"deleteSubtasks": true},
				IsResponseAvailable: false,
			},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "true", r.URL.Query().Get("deleteSubtasks"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errorMessages":["The issue has subtasks."],"errors":{}}`))
			},
			checkResult: func(t *testing.T, result *Result[map[string]any]) {
				assert.False(t, result.OK)
				require.NotNil(t, result.Err)
				assert.Equal(t, KindRemoteRejected, result.Err.Kind)
				assert.Equal(t, []string{"The issue has subtasks."}, result.Err.Remote.ErrorMessages)
			},
		},
		{
			name:       "Request Timeout",
			timeout:    50 * time.Millisecond,
			descriptor: &Descriptor{Path: "/slow", Method: http.MethodGet, IsResponseAvailable: true},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(500 * time.Millisecond):
				case <-r.Context().Done():
				}
			},
			checkResult: func(t *testing.T, result *Result[map[string]any]) {
				assert.False(t, result.OK)
				require.NotNil(t, result.Err)
				assert.Equal(t, KindTransportFailure, result.Err.Kind)
				assert.Zero(t, result.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResponse(t, w, r)
			}))
			defer server.Close()

			endpoint := tt.endpoint
			endpoint.BaseURL = server.URL + "/"

			transport, err := NewHTTPTransport(&endpoint, NewHTTPAuthManager(&endpoint))
			require.NoError(t, err)
			if tt.timeout > 0 {
				transport.SetTimeout(tt.timeout)
			}

			result, err := Dispatch[map[string]any](context.Background(), NewDispatcher(transport), tt.descriptor)
			require.NoError(t, err)
			tt.checkResult(t, result)
		})
	}
}

func TestNewHTTPTransport_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "jira.example.com", "ftp://jira.example.com", "://"} {
		_, err := NewHTTPTransport(&config.EndpointConfig{BaseURL: raw}, nil)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, raw)
	}
}

func TestHTTPTransport_AuthFailureIsTransportFailure(t *testing.T) {
	endpoint := &config.EndpointConfig{BaseURL: "http://127.0.0.1:1", AuthType: config.AuthTypeOAuth2}
	transport, err := NewHTTPTransport(endpoint, NewHTTPAuthManager(endpoint))
	require.NoError(t, err)

	result, err := Dispatch[Void](context.Background(), NewDispatcher(transport), &Descriptor{Path: "/x", Method: http.MethodGet})
	require.NoError(t, err)
	require.NotNil(t, result.Err)
	assert.ErrorIs(t, result.Err, ErrOAuth2NotConfigured)
}

func TestHostTransport(t *testing.T) {
	t.Run("delegates to host", func(t *testing.T) {
		var seen *Request
		host := HostFunc(func(ctx context.Context, req *Request) (*Response, error) {
			seen = req
			return jsonResponse(http.StatusOK, `{"id":84,"name":"scrum board"}`), nil
		})

		result, err := Dispatch[board](context.Background(), NewDispatcher(NewHostTransport(host)), &Descriptor{
			Path:                "/rest/agile/1.0/board/{boardId}",
			Method:              http.MethodGet,
			PathParams:          map[string]any{"boardId": 84},
			IsResponseAvailable: true,
		})
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Equal(t, board{ID: 84, Name: "scrum board"}, result.Value)

		require.NotNil(t, seen)
		assert.Equal(t, "/rest/agile/1.0/board/84", seen.URL)
		assert.Empty(t, seen.Headers.Get("Authorization"))
	})

	t.Run("host failure", func(t *testing.T) {
		host := HostFunc(func(ctx context.Context, req *Request) (*Response, error) {
			return nil, context.DeadlineExceeded
		})
		result, err := Dispatch[board](context.Background(), NewDispatcher(NewHostTransport(host)), &Descriptor{
			Path: "/x", Method: http.MethodGet,
		})
		require.NoError(t, err)
		assert.Equal(t, KindTransportFailure, result.Err.Kind)
		assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	})

	t.Run("nil response", func(t *testing.T) {
		host := HostFunc(func(ctx context.Context, req *Request) (*Response, error) {
			return nil, nil
		})
		_, err := NewHostTransport(host).Execute(context.Background(), &Request{})
		assert.Error(t, err)
	})

	t.Run("no host", func(t *testing.T) {
		_, err := NewHostTransport(nil).Execute(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrNoHost)
	})
}

func TestProxyHost(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		assert.Equal(t, "invocation-token", r.Header.Get("X-Host-Token"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accountId":"abc"}`))
	}))
	defer proxy.Close()

	transport, err := NewTransport(&config.Config{
		Mode: config.ModeHosted,
		Host: config.HostConfig{
			ProxyURL: proxy.URL,
			Headers:  map[string]string{"X-Host-Token": "invocation-token"},
		},
	})
	require.NoError(t, err)
	assert.IsType(t, &HostTransport{}, transport)

	result, err := Dispatch[map[string]string](context.Background(), NewDispatcher(transport), &Descriptor{
		Path: "/rest/api/3/myself", Method: http.MethodGet, IsResponseAvailable: true,
	})
	require.NoError(t, err)
	require.True(t, result.OK)
	assert.Equal(t, "abc", result.Value["accountId"])
}

func TestNewTransport(t *testing.T) {
	transport, err := NewTransport(&config.Config{
		Mode:     config.ModeDirect,
		Endpoint: config.EndpointConfig{BaseURL: "https://example.atlassian.net"},
	})
	require.NoError(t, err)
	assert.IsType(t, &HTTPTransport{}, transport)

	_, err = NewTransport(&config.Config{Mode: config.ModeHosted})
	assert.ErrorIs(t, err, ErrInvalidBaseURL)

	_, err = NewTransport(&config.Config{Mode: "other"})
	assert.ErrorIs(t, err, config.ErrUnknownMode)
}
