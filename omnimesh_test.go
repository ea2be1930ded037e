package omnimesh_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/omnimesh"
	"github.com/hupe1980/omnimesh/config"
	"github.com/hupe1980/omnimesh/connector/anthropic"
	"github.com/hupe1980/omnimesh/connector/openai"
	"github.com/hupe1980/omnimesh/connector/placeholder"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/internal/testutil"
	"github.com/hupe1980/omnimesh/memory"
	"github.com/hupe1980/omnimesh/orchestrator"
)

func testConfig() config.Config {
	return config.Config{
		OpenAIModel:          "gpt-4o-mini",
		AnthropicModel:       "claude-3-5-sonnet-20241022",
		HFModel:              "meta-llama/Llama-3.2-3B-Instruct",
		ProviderTimeoutMS:    200,
		RetryBaseDelayMS:     10,
		MaxProviders:         5,
		OutputLanguage:       "pt-BR",
		CombinerProvider:     "openai",
		SynthesisTimeoutMS:   200,
		HealthProbeTimeoutMS: 200,
		LogLevel:             "error",
		LogFormat:            "text",
	}
}

func TestNewFromConfig_RequestTimeoutOutlastsProviderBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "slow but sure"}}]
}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.OpenAIAPIKey = "sk-test"
	cfg.OpenAIBaseURL = srv.URL + "/"
	cfg.ProviderTimeoutMS = 50
	cfg.CombinerProvider = "none"
	mesh := omnimesh.NewFromConfig(cfg)

	res := mesh.Orchestrate(context.Background(), core.OrchestrationRequest{
		Prompt:    "hi",
		Providers: []string{"openai"},
		Timeout:   2 * time.Second,
	})

	require.Len(t, res.ProviderResponses, 1)
	resp := res.ProviderResponses[0]
	require.True(t, resp.Valid(), resp.Error)
	assert.Equal(t, "slow but sure", resp.Text)
	assert.Equal(t, orchestrator.CombinerFallback, res.Combiner)
	assert.Equal(t, "openai: slow but sure", res.Combined)
}

func TestNew_OrchestrateConsolidates(t *testing.T) {
	synth := &testutil.StubSynthesizer{Text: "merged"}
	mesh := omnimesh.New(func(o *omnimesh.Options) {
		o.Connectors = []core.Connector{
			testutil.Answer("A", "alpha", 0),
			testutil.Answer("B", "beta", 0),
		}
		o.Synthesizer = synth
	})

	res := mesh.Orchestrate(context.Background(), core.OrchestrationRequest{Prompt: "hi", CallerID: "u1"})

	assert.Equal(t, "merged", res.Combined)
	assert.Equal(t, "stub-combiner", res.Combiner)
	assert.NotEmpty(t, res.RequestID)
	require.Len(t, res.ProviderResponses, 2)
	assert.Equal(t, "A", res.ProviderResponses[0].Provider)
	assert.Equal(t, "B", res.ProviderResponses[1].Provider)
}

func TestMesh_DisableRemovesFromDefaultResolution(t *testing.T) {
	a := testutil.Answer("A", "alpha", 0)
	b := testutil.Answer("B", "beta", 0)
	mesh := omnimesh.New(func(o *omnimesh.Options) {
		o.Connectors = []core.Connector{a, b}
	})

	require.True(t, mesh.Disable("B"))
	assert.False(t, mesh.Disable("missing"))

	res := mesh.Orchestrate(context.Background(), core.OrchestrationRequest{Prompt: "hi"})
	require.Len(t, res.ProviderResponses, 1)
	assert.Equal(t, "A", res.ProviderResponses[0].Provider)
	assert.Equal(t, 0, b.Calls())
	assert.Equal(t, orchestrator.CombinerFallback, res.Combiner)
	assert.Equal(t, "A: alpha", res.Combined)

	require.True(t, mesh.Enable("B"))
	res = mesh.Orchestrate(context.Background(), core.OrchestrationRequest{Prompt: "hi"})
	assert.Len(t, res.ProviderResponses, 2)
}

func TestMesh_DefaultMemoryFeedsSynthesis(t *testing.T) {
	synth := &testutil.StubSynthesizer{Text: "ok"}
	mesh := omnimesh.New(func(o *omnimesh.Options) {
		o.Connectors = []core.Connector{testutil.Answer("A", "alpha", 0)}
		o.Synthesizer = synth
	})

	store, ok := mesh.Memory().(*memory.InMemoryStore)
	require.True(t, ok)
	store.SetSummary("u1", "prefers short answers")

	mesh.Orchestrate(context.Background(), core.OrchestrationRequest{Prompt: "hi", CallerID: "u1", IncludeMemory: true})

	calls := synth.Messages()
	require.Len(t, calls, 1)
	var joined string
	for _, m := range calls[0] {
		joined += m.Content
	}
	assert.Contains(t, joined, "prefers short answers")
}

func TestNewFromConfig_CredentialPolicy(t *testing.T) {
	mesh := omnimesh.NewFromConfig(testConfig())

	caps := mesh.ListCapabilities()
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, c.Name)
		assert.False(t, c.Enabled, c.Name)
		assert.False(t, c.Healthy, c.Name)
	}
	assert.Equal(t, []string{
		openai.Name,
		anthropic.Name,
		"huggingface",
		"stability",
		placeholder.RunwayName,
		placeholder.PikaName,
		placeholder.ReplicateVideoName,
	}, names)

	res := mesh.Orchestrate(context.Background(), core.OrchestrationRequest{Prompt: "hi"})
	assert.Empty(t, res.ProviderResponses)
	assert.Equal(t, orchestrator.CombinerNone, res.Combiner)
	assert.Equal(t, orchestrator.Apology("pt-BR"), res.Combined)
}

func TestNewFromConfig_AllowList(t *testing.T) {
	cfg := testConfig()
	cfg.EnabledProviders = []string{placeholder.RunwayName, placeholder.PikaName}

	mesh := omnimesh.NewFromConfig(cfg)

	enabled := map[string]bool{}
	for _, c := range mesh.ListCapabilities() {
		enabled[c.Name] = c.Enabled
	}
	assert.True(t, enabled[placeholder.RunwayName])
	assert.True(t, enabled[placeholder.PikaName])
	assert.False(t, enabled[openai.Name])

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	health := mesh.HealthCheckAll(ctx)
	assert.Equal(t, map[string]bool{placeholder.RunwayName: false, placeholder.PikaName: false}, health)
}

func TestNewFromConfig_ExplicitPlaceholderIsRejected(t *testing.T) {
	mesh := omnimesh.NewFromConfig(testConfig())

	res := mesh.Orchestrate(context.Background(), core.OrchestrationRequest{
		Prompt:    "a cat video",
		Providers: []string{placeholder.RunwayName, "nope"},
	})

	require.Len(t, res.ProviderResponses, 2)
	assert.Equal(t, core.KindRejected, res.ProviderResponses[0].ErrorKind)
	assert.Equal(t, core.KindNotFound, res.ProviderResponses[1].ErrorKind)
	assert.Equal(t, orchestrator.CombinerNone, res.Combiner)
}

func TestNewFromConfig_OverridesApplyLast(t *testing.T) {
	mesh := omnimesh.NewFromConfig(testConfig(), func(o *omnimesh.Options) {
		o.Connectors = append(o.Connectors, testutil.Answer("local", "hello", 0))
	})

	_, err := mesh.Connector("local")
	require.NoError(t, err)
	_, err = mesh.Connector("missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCatalog_Synthesizer(t *testing.T) {
	cfg := testConfig()

	_, synth := omnimesh.Catalog(cfg, nil)
	assert.Nil(t, synth, "no openai credential")

	cfg.OpenAIAPIKey = "sk-test"
	_, synth = omnimesh.Catalog(cfg, nil)
	require.NotNil(t, synth)
	assert.Equal(t, openai.CombinerName, synth.Name())

	cfg.CombinerProvider = "anthropic"
	cfg.AnthropicAPIKey = "ak-test"
	_, synth = omnimesh.Catalog(cfg, nil)
	require.NotNil(t, synth)
	assert.Equal(t, anthropic.CombinerName, synth.Name())

	cfg.CombinerProvider = "none"
	_, synth = omnimesh.Catalog(cfg, nil)
	assert.Nil(t, synth)
}
