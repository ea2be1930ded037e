package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Paris. Contact: bob@example.com"}}]
}`

func newTestConnector(t *testing.T, h http.HandlerFunc, optFns ...func(o *Options)) *Connector {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(append([]func(o *Options){func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
		o.Retry = connector.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}
	}}, optFns...)...)
}

func TestCall_Success(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	})

	resp := c.Call(context.Background(), core.CallRequest{
		Prompt:  "Capital of France?",
		Options: core.CallOptions{Model: "gpt-4o"},
	})
	require.True(t, resp.Valid(), resp.Error)
	assert.Equal(t, Name, resp.Provider)
	assert.Equal(t, core.ModalityText, resp.Modality)
	assert.Equal(t, "Paris. Contact: [EMAIL]", resp.Text)
	assert.Equal(t, []string{"https://platform.openai.com"}, resp.Sources)
}

func TestCall_MissingCredential(t *testing.T) {
	c := New(func(o *Options) { o.APIKey = "" })
	resp := c.Call(context.Background(), core.CallRequest{Prompt: "hi"})
	assert.Equal(t, core.KindCredentialMissing, resp.ErrorKind)
	assert.False(t, c.HasCredential())
	assert.False(t, c.HealthCheck(context.Background()))
}

func TestCall_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	})

	resp := c.Call(context.Background(), core.CallRequest{Prompt: "hi"})
	assert.True(t, resp.Valid(), resp.Error)
	assert.EqualValues(t, 3, hits.Load())
}

func TestCall_RejectionIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
	})

	resp := c.Call(context.Background(), core.CallRequest{Prompt: "hi"})
	assert.False(t, resp.Valid())
	assert.Equal(t, core.KindRejected, resp.ErrorKind)
	assert.Contains(t, resp.Error, "status=400")
	assert.EqualValues(t, 1, hits.Load())
}

func TestCall_Timeout(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, func(o *Options) { o.Timeout = 30 * time.Millisecond })

	resp := c.Call(context.Background(), core.CallRequest{Prompt: "hi"})
	assert.Equal(t, core.KindTimeout, resp.ErrorKind)
	assert.Empty(t, resp.Text)
}

func TestHealthCheck(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})
	assert.True(t, c.HealthCheck(context.Background()))
}

func TestCostEstimate(t *testing.T) {
	c := New(func(o *Options) { o.APIKey = "k" })
	// 8 chars -> 2 input tokens, default 1000 output tokens.
	got := c.CostEstimate(context.Background(), core.CallRequest{Prompt: "abcdefgh"})
	assert.InDelta(t, (2*0.15+1000*0.60)/1e6, got, 1e-12)

	got = c.CostEstimate(context.Background(), core.CallRequest{Prompt: "abc", Options: core.CallOptions{MaxTokens: 10}})
	assert.InDelta(t, (1*0.15+10*0.60)/1e6, got, 1e-12)
}

func TestSynthesizer(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	})

	s := c.Synthesizer()
	assert.Equal(t, CombinerName, s.Name())
	out, err := s.Synthesize(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "merge"},
		{Role: core.RoleUser, Content: "answers"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Paris")
}

func TestSynthesizer_Failure(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
	})
	_, err := c.Synthesizer().Synthesize(context.Background(), []core.Message{{Role: core.RoleUser, Content: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConsolidation)
}
