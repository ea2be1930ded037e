package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMaxProviders caps how many providers one request fans out to.
	DefaultMaxProviders = 5
	// DefaultSynthesisTimeout bounds the consolidation call.
	DefaultSynthesisTimeout = 30 * time.Second

	// UnknownProvider tags an entry whose dispatch failed outside the
	// connector boundary.
	UnknownProvider = "unknown"
	// CombinerNone is reported when no valid response reached consolidation.
	CombinerNone = "none"
	// CombinerFallback is reported when answers were concatenated because
	// synthesis failed or no synthesizer is configured.
	CombinerFallback = "fallback"

	tracerName = "github.com/hupe1980/omnimesh/orchestrator"
)

// Resolver is the registry view the orchestrator needs.
type Resolver interface {
	Get(name string) (core.Connector, error)
	ListByModality(m core.Modality) []core.Connector
}

// Options configure an Orchestrator.
type Options struct {
	// MaxProviders truncates both explicit and default provider lists.
	MaxProviders int
	// Timeout is the per-call budget unless a request overrides it.
	Timeout time.Duration
	// SynthesisTimeout bounds the consolidation call.
	SynthesisTimeout time.Duration
	// Language is used when a request names none.
	Language string
	// Synthesizer merges valid answers. Without one every multi-answer
	// request takes the concatenation fallback.
	Synthesizer core.Synthesizer
	// Memory resolves caller context for requests asking for it.
	Memory core.MemoryProvider
	// TracerProvider defaults to the global otel provider.
	TracerProvider trace.TracerProvider
	Logger         logging.Logger
}

// Orchestrator runs fan-out/fan-in requests against a Resolver.
type Orchestrator struct {
	registry Resolver
	tracer   trace.Tracer
	opts     Options
}

// New creates an Orchestrator over registry.
func New(registry Resolver, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxProviders:     DefaultMaxProviders,
		Timeout:          connector.DefaultTimeout,
		SynthesisTimeout: DefaultSynthesisTimeout,
		Language:         core.DefaultLanguage,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxProviders <= 0 {
		opts.MaxProviders = DefaultMaxProviders
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Orchestrator{
		registry: registry,
		tracer:   opts.TracerProvider.Tracer(tracerName),
		opts:     opts,
	}
}

// Orchestrate runs one request end to end. It always returns a result; every
// failure degrades to error entries, the apology or the fallback text.
func (o *Orchestrator) Orchestrate(ctx context.Context, req core.OrchestrationRequest) core.CombinedResult {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := o.tracer.Start(ctx, "orchestrator.Orchestrate", trace.WithAttributes(
		attribute.String("request.id", requestID),
		attribute.String("caller.id", req.CallerID),
	))
	defer span.End()

	lang := req.Language
	if lang == "" {
		lang = o.opts.Language
	}
	lang, _ = localeFor(lang)

	log := logging.ForRequest(o.opts.Logger, requestID, req.CallerID)

	names := o.Resolve(req.Providers)
	responses := o.dispatch(ctx, log, names, req)
	valid, _ := core.PartitionResponses(responses)

	result := core.CombinedResult{
		RequestID:         requestID,
		ProviderResponses: responses,
		Trace:             []core.TraceEntry{},
		Timestamp:         time.Now(),
	}

	path := "consolidated"
	if len(valid) == 0 {
		path = "apology"
		result.Combined = Apology(lang)
		result.Combiner = CombinerNone
	} else {
		cc := core.CombinerContext{
			UserMessage: req.Prompt,
			Responses:   valid,
			Language:    lang,
		}
		if req.IncludeMemory {
			cc.MemoryContext = o.memoryContext(ctx, log, req.CallerID)
		}
		result.Combined, result.Trace, result.Combiner = o.consolidate(ctx, log, cc)
		if result.Combiner == CombinerFallback {
			path = "fallback"
		}
	}

	span.SetAttributes(
		attribute.Int("providers.dispatched", len(names)),
		attribute.Int("providers.valid", len(valid)),
		attribute.String("orchestration.path", path),
	)
	logging.Orchestration(log, len(names), len(valid), path, time.Since(start))
	return result
}

// Resolve returns the provider names a request fans out to: the explicit
// list if given, else every enabled text connector, truncated to
// MaxProviders in both cases.
func (o *Orchestrator) Resolve(explicit []string) []string {
	if len(explicit) > 0 {
		n := min(len(explicit), o.opts.MaxProviders)
		out := make([]string, n)
		copy(out, explicit[:n])
		return out
	}
	conns := o.registry.ListByModality(core.ModalityText)
	if len(conns) > o.opts.MaxProviders {
		conns = conns[:o.opts.MaxProviders]
	}
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.Name()
	}
	return out
}

func (o *Orchestrator) memoryContext(ctx context.Context, log logging.Logger, callerID string) string {
	if o.opts.Memory == nil {
		return ""
	}
	text, err := o.opts.Memory.Context(ctx, callerID)
	if err != nil {
		log.Warn("memory lookup failed", "error", err)
		return ""
	}
	return text
}
