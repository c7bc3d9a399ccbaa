package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/ai"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{}, testLogger())
	require.Error(t, err)

	c, err := NewClient(Config{APIKey: "k"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "secret", Model: "test-model", BaseURL: server.URL + "/"}, testLogger())
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ai.ErrorKind
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, ai.QuotaExceeded},
		{"quota in body", http.StatusForbidden, `{"error":{"message":"quota exhausted"}}`, ai.QuotaExceeded},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"internal"}}`, ai.GeneralError},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ai.GeneralError},
		{"bad json", http.StatusOK, `not json`, ai.GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient(Config{APIKey: "k", BaseURL: server.URL}, testLogger())
			require.NoError(t, err)

			_, err = c.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, ai.Classify(err))
		})
	}
}

func TestGenerateCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: server.URL}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Generate(ctx, "p")
	require.Error(t, err)
}

func TestGenerateTransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := NewClient(Config{APIKey: "super-secret", BaseURL: server.URL}, testLogger())
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret")
}
