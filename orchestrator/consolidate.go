package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/internal/util"
	"github.com/hupe1980/omnimesh/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ExcerptLength is the number of characters of each provider answer kept in
// a trace entry.
const ExcerptLength = 100

var promptTemplate = util.MustParseTemplate("consolidation", `{{.L.Header}}
{{range $i, $step := .L.Steps}}{{inc $i}}) {{$step}}
{{end}}
{{.L.Question}}
"{{.UserMessage}}"
{{if .MemoryContext}}
{{.L.Memory}}
"{{.MemoryContext}}"
{{end}}
{{.L.Received}}
{{range $i, $r := .Responses}}{{if $i}}
{{end}}[PROVIDER: {{$r.Provider}}]
{{$r.Text}}
---
{{end}}
{{.L.Closing}}`)

// BuildMessages renders the structured synthesis conversation for cc: a
// system message and a user message that embeds the question, the optional
// memory context and every response under its [PROVIDER: name] marker.
func BuildMessages(cc core.CombinerContext) ([]core.Message, error) {
	_, l := localeFor(cc.Language)
	prompt, err := util.Execute(promptTemplate, struct {
		core.CombinerContext
		L locale
	}{cc, l})
	if err != nil {
		return nil, err
	}
	return []core.Message{
		{Role: core.RoleSystem, Content: l.System},
		{Role: core.RoleUser, Content: prompt},
	}, nil
}

// Consolidate merges the valid responses of cc. It returns the combined
// text, the trace and the combiner identity. When synthesis is unavailable
// or fails it returns the concatenation fallback with an empty trace.
func (o *Orchestrator) Consolidate(ctx context.Context, cc core.CombinerContext) (string, []core.TraceEntry, string) {
	return o.consolidate(ctx, o.opts.Logger, cc)
}

func (o *Orchestrator) consolidate(ctx context.Context, log logging.Logger, cc core.CombinerContext) (string, []core.TraceEntry, string) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.consolidate")
	defer span.End()

	text, err := o.synthesize(ctx, cc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("fallback", true))
		log.Warn("consolidation failed, using fallback", "error", err)
		return Fallback(cc.Responses), []core.TraceEntry{}, CombinerFallback
	}
	return text, Trace(cc.Responses), o.opts.Synthesizer.Name()
}

func (o *Orchestrator) synthesize(ctx context.Context, cc core.CombinerContext) (string, error) {
	if o.opts.Synthesizer == nil {
		return "", core.NewProviderError("", core.KindConsolidation, errors.New("no synthesizer configured"))
	}
	messages, err := BuildMessages(cc)
	if err != nil {
		return "", core.NewProviderError(o.opts.Synthesizer.Name(), core.KindConsolidation, err)
	}
	text, err := connector.CallWithTimeout(ctx, o.opts.SynthesisTimeout, func(ctx context.Context) (string, error) {
		return o.opts.Synthesizer.Synthesize(ctx, messages)
	})
	if err != nil {
		return "", core.NewProviderError(o.opts.Synthesizer.Name(), core.KindConsolidation, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", core.NewProviderError(o.opts.Synthesizer.Name(), core.KindConsolidation,
			fmt.Errorf("empty synthesis: %w", core.ErrConsolidation))
	}
	return text, nil
}

// Fallback concatenates "provider: text" for every response, in order,
// separated by blank lines.
func Fallback(responses []core.ProviderResponse) string {
	parts := make([]string, len(responses))
	for i, r := range responses {
		parts[i] = r.Provider + ": " + r.Text
	}
	return strings.Join(parts, "\n\n")
}

// Trace pairs the first ExcerptLength characters of each response with its
// provider. It is an attribution heuristic, not a span mapping.
func Trace(responses []core.ProviderResponse) []core.TraceEntry {
	out := make([]core.TraceEntry, len(responses))
	for i, r := range responses {
		out[i] = core.TraceEntry{Excerpt: excerpt(r.Text, ExcerptLength), Provider: r.Provider}
	}
	return out
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
