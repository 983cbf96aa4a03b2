package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusapp/focus-server/internal/config"
)

func testClient(url string, timeout time.Duration) *Client {
	return NewClient(&config.Config{
		InferenceURL:     url,
		InferenceAPIKey:  "test-key",
		InferenceModel:   "test-model",
		InferenceTimeout: timeout,
	})
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "analyze this", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "a fine report"}},
			},
		})
	}))
	defer srv.Close()

	reply, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), "analyze this")
	require.NoError(t, err)
	assert.Equal(t, "a fine report", reply)
}

func TestCompleteStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrAuth},
		{"forbidden", http.StatusForbidden, "", ErrAuth},
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimited},
		{"unavailable", http.StatusServiceUnavailable, "", ErrUnavailable},
		{"model loading", http.StatusInternalServerError, `{"error":"model is loading"}`, ErrUnavailable},
		{"other 5xx", http.StatusBadGateway, "", ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), "p")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCompleteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 20*time.Millisecond).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCompleteEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestCompleteGarbledBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyReply)
}
