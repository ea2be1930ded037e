// Package omnimesh provides a high-level façade over the capability registry
// and the fan-out orchestrator. Most applications interact with this package
// by:
//  1. Creating a Mesh via New() with their own connectors, or via
//     NewFromConfig() with the built-in provider catalog
//  2. Toggling providers at runtime (Enable, Disable, HealthCheckAll)
//  3. Sending prompts through Orchestrate and reading the CombinedResult
//
// All defaults are safe for local development and testing: memory is kept in
// process and logging is disabled unless a logger is supplied.
package omnimesh

import (
	"context"
	"time"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/omnimesh/config"
	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/connector/anthropic"
	"github.com/hupe1980/omnimesh/connector/huggingface"
	"github.com/hupe1980/omnimesh/connector/openai"
	"github.com/hupe1980/omnimesh/connector/placeholder"
	"github.com/hupe1980/omnimesh/connector/stability"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/logging"
	"github.com/hupe1980/omnimesh/memory"
	"github.com/hupe1980/omnimesh/orchestrator"
	"github.com/hupe1980/omnimesh/registry"
)

// Options configures the Mesh instance.
type Options struct {
	// Connectors are registered in order.
	Connectors []core.Connector

	// AllowList, when non-empty, decides which connectors start enabled.
	// Otherwise a connector starts enabled iff it has its credential.
	AllowList []string

	// MaxProviders caps the fan-out width of one request.
	MaxProviders int
	// Timeout is the default per-call budget.
	Timeout time.Duration
	// SynthesisTimeout bounds the consolidation call.
	SynthesisTimeout time.Duration
	// ProbeTimeout bounds a single health probe.
	ProbeTimeout time.Duration
	// Language is the default output locale.
	Language string

	// Synthesizer merges valid answers. Nil means concatenation fallback.
	Synthesizer core.Synthesizer
	// Memory defaults to an in-memory store.
	Memory core.MemoryProvider

	TracerProvider trace.TracerProvider

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the high-level façade aggregating the registry and the orchestrator.
type Mesh struct {
	opts         Options
	registry     *registry.Registry
	orchestrator *orchestrator.Orchestrator
}

// New creates a Mesh with optional overrides.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		MaxProviders:     orchestrator.DefaultMaxProviders,
		Timeout:          connector.DefaultTimeout,
		SynthesisTimeout: orchestrator.DefaultSynthesisTimeout,
		ProbeTimeout:     registry.DefaultProbeTimeout,
		Language:         core.DefaultLanguage,
		Memory:           memory.NewInMemoryStore(),
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	reg := registry.New(func(o *registry.Options) {
		o.AllowList = opts.AllowList
		o.ProbeTimeout = opts.ProbeTimeout
		o.Logger = logging.ForComponent(opts.Logger, "registry")
	})
	reg.Register(opts.Connectors...)

	orch := orchestrator.New(reg, func(o *orchestrator.Options) {
		o.MaxProviders = opts.MaxProviders
		o.Timeout = opts.Timeout
		o.SynthesisTimeout = opts.SynthesisTimeout
		o.Language = opts.Language
		o.Synthesizer = opts.Synthesizer
		o.Memory = opts.Memory
		o.TracerProvider = opts.TracerProvider
		o.Logger = logging.ForComponent(opts.Logger, "orchestrator")
	})

	return &Mesh{opts: opts, registry: reg, orchestrator: orch}
}

// NewFromConfig builds a Mesh with the full provider catalog wired from cfg.
// Further overrides are applied after the config-derived options.
func NewFromConfig(cfg config.Config, optFns ...func(o *Options)) *Mesh {
	logger := cfg.Logger()
	connectors, synth := Catalog(cfg, logger)

	fromConfig := func(o *Options) {
		o.Connectors = connectors
		o.AllowList = cfg.EnabledProviders
		o.MaxProviders = cfg.MaxProviders
		o.Timeout = cfg.ProviderTimeout()
		o.SynthesisTimeout = cfg.SynthesisTimeout()
		o.ProbeTimeout = cfg.HealthProbeTimeout()
		o.Language = cfg.OutputLanguage
		o.Synthesizer = synth
		o.Logger = logger
	}

	return New(append([]func(o *Options){fromConfig}, optFns...)...)
}

// Catalog builds the built-in connectors in registration order, plus the
// synthesizer selected by COMBINER_PROVIDER. The synthesizer is nil when the
// selected provider has no credential.
func Catalog(cfg config.Config, logger logging.Logger) ([]core.Connector, core.Synthesizer) {
	logger = logging.ForComponent(logging.OrNoOp(logger), "connector")
	retry := connector.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay()}
	timeout := cfg.ProviderTimeout()

	openaiOpts := func(o *openai.Options) {
		o.APIKey = cfg.OpenAIAPIKey
		o.BaseURL = cfg.OpenAIBaseURL
		o.Model = cfg.OpenAIModel
		o.Retry = retry
		if timeout > 0 {
			o.Timeout = timeout
		}
		o.Logger = logger
	}
	anthropicOpts := func(o *anthropic.Options) {
		o.APIKey = cfg.AnthropicAPIKey
		o.Model = sdkanthropic.Model(cfg.AnthropicModel)
		o.Retry = retry
		if timeout > 0 {
			o.Timeout = timeout
		}
		o.Logger = logger
	}

	connectors := []core.Connector{
		openai.New(openaiOpts),
		anthropic.New(anthropicOpts),
		huggingface.New(func(o *huggingface.Options) {
			o.APIKey = cfg.HFAPIKey
			o.Model = cfg.HFModel
			o.Retry = retry
			if timeout > 0 {
				o.Timeout = timeout
			}
			o.Logger = logger
		}),
		stability.New(func(o *stability.Options) {
			o.APIKey = cfg.StabilityAPIKey
			o.Retry = retry
			if timeout > 0 {
				o.Timeout = timeout
			}
			o.Logger = logger
		}),
		placeholder.NewRunway(func(o *placeholder.Options) {
			o.APIKey = cfg.RunwayAPIKey
			o.Logger = logger
		}),
		placeholder.NewPika(func(o *placeholder.Options) {
			o.APIKey = cfg.PikaAPIKey
			o.Logger = logger
		}),
		placeholder.NewReplicateVideo(func(o *placeholder.Options) {
			o.APIKey = cfg.ReplicateAPIToken
			o.Logger = logger
		}),
	}

	var synth core.Synthesizer
	switch cfg.CombinerProvider {
	case openai.Name:
		if cfg.OpenAIAPIKey != "" {
			synth = openai.NewSynthesizer(openaiOpts)
		}
	case anthropic.Name:
		if cfg.AnthropicAPIKey != "" {
			synth = anthropic.NewSynthesizer(anthropicOpts)
		}
	}

	return connectors, synth
}

// Register adds connectors to the registry. A duplicate name replaces the
// existing connector and keeps its enabled flag.
func (m *Mesh) Register(connectors ...core.Connector) { m.registry.Register(connectors...) }

// Connector returns a registered connector regardless of its enabled flag.
func (m *Mesh) Connector(name string) (core.Connector, error) { return m.registry.Get(name) }

// Orchestrate runs one prompt through the fan-out orchestrator. It never
// fails; degraded outcomes are visible in the result.
func (m *Mesh) Orchestrate(ctx context.Context, req core.OrchestrationRequest) core.CombinedResult {
	return m.orchestrator.Orchestrate(ctx, req)
}

// ListCapabilities returns the admin view of every registered connector.
func (m *Mesh) ListCapabilities() []core.CapabilityDescriptor { return m.registry.ListCapabilities() }

// Enable turns a registered connector on. It reports false for unknown names.
func (m *Mesh) Enable(name string) bool { return m.registry.Enable(name) }

// Disable turns a registered connector off. It reports false for unknown names.
func (m *Mesh) Disable(name string) bool { return m.registry.Disable(name) }

// HealthCheckAll probes every enabled connector concurrently.
func (m *Mesh) HealthCheckAll(ctx context.Context) map[string]bool {
	return m.registry.HealthCheckAll(ctx)
}

// Memory returns the memory collaborator used for IncludeMemory requests.
func (m *Mesh) Memory() core.MemoryProvider { return m.opts.Memory }
