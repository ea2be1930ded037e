package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// dispatch calls every named provider concurrently and waits for all of
// them. The result is index-aligned with names.
func (o *Orchestrator) dispatch(ctx context.Context, log logging.Logger, names []string, req core.OrchestrationRequest) []core.ProviderResponse {
	timeout := o.opts.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	call := core.CallRequest{
		Prompt:   req.Prompt,
		CallerID: req.CallerID,
		Options:  req.Options,
	}

	out := make([]core.ProviderResponse, len(names))
	var g errgroup.Group
	for i, name := range names {
		c, err := o.registry.Get(name)
		if err != nil {
			out[i] = core.NewErrorResponse(name, core.ModalityText, err)
			log.Warn("provider not registered", "provider", name)
			continue
		}
		g.Go(func() error {
			out[i] = o.callOne(ctx, log, c, call, timeout)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// callOne runs a single connector under timeout. A panic escaping the
// connector is reported under UnknownProvider.
func (o *Orchestrator) callOne(ctx context.Context, log logging.Logger, c core.Connector, req core.CallRequest, timeout time.Duration) core.ProviderResponse {
	ctx, span := o.tracer.Start(ctx, "orchestrator.dispatch", trace.WithAttributes(
		attribute.String("provider", c.Name()),
	))
	defer span.End()

	start := time.Now()
	resp, err := connector.CallWithTimeout(ctx, timeout, func(ctx context.Context) (core.ProviderResponse, error) {
		return c.Call(ctx, req), nil
	})
	if err != nil {
		kind := core.KindOf(err)
		provider := c.Name()
		if kind == core.KindUnknown {
			provider = UnknownProvider
		}
		resp = core.NewErrorResponse(provider, modalityOf(c), core.NewProviderError(provider, kind, err))
	}
	if resp.Provider == "" {
		resp.Provider = c.Name()
	}
	if resp.Timestamp.IsZero() {
		resp.Timestamp = time.Now()
	}

	span.SetAttributes(attribute.Bool("valid", resp.Valid()))
	if resp.Failed() {
		span.SetAttributes(attribute.String("error.kind", string(resp.ErrorKind)))
		span.SetStatus(codes.Error, resp.Error)
	}
	var callErr error
	if resp.Failed() {
		callErr = errors.New(resp.Error)
	}
	logging.ProviderCall(log, c.Name(), time.Since(start), resp.Valid(), callErr)
	return resp
}

func modalityOf(c core.Connector) core.Modality {
	if m := c.Modalities(); len(m) > 0 {
		return m[0]
	}
	return core.ModalityText
}
