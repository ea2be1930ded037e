package connector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/omnimesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"inputs":"hi"}`, string(b))
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	data, err := DoJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL,
		map[string]string{"Authorization": "Bearer k"}, map[string]string{"inputs": "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"ok"}`, string(data))
}

func TestDoJSON_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   core.ErrorKind
		msg    string
	}{
		{http.StatusBadRequest, `{"error":{"message":"bad prompt"}}`, core.KindRejected, "status=400: bad prompt"},
		{http.StatusUnauthorized, `{"message":"invalid key"}`, core.KindRejected, "status=401: invalid key"},
		{http.StatusTooManyRequests, `{"error":"slow down"}`, core.KindTransient, "status=429: slow down"},
		{http.StatusBadGateway, `upstream down`, core.KindTransient, "status=502: upstream down"},
		{http.StatusServiceUnavailable, ``, core.KindTransient, "status=503: Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := DoJSON(context.Background(), srv.Client(), http.MethodGet, srv.URL, nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.kind, core.KindOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDoJSON_TransportFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := DoJSON(context.Background(), http.DefaultClient, http.MethodGet, url, nil, nil)
	require.Error(t, err)
	assert.Equal(t, core.KindTransient, core.KindOf(err))
	assert.True(t, core.IsRetryable(err))
}

func TestStatusError_2xxIsNil(t *testing.T) {
	assert.NoError(t, StatusError(http.StatusOK, nil))
	assert.NoError(t, StatusError(http.StatusCreated, nil))
}
