package connector

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/logging"
)

// Options configure the behavior shared by every connector embedding Base.
type Options struct {
	// Timeout is the connector's own budget for one network step. It only
	// applies when the caller's context carries no deadline; otherwise the
	// caller's deadline governs, so an orchestrator budget can be longer or
	// shorter than this value.
	Timeout time.Duration
	// Retry bounds InvokeWithRetry.
	Retry RetryPolicy
	// Sources are attached to successful responses that carry none.
	Sources []string
	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// Base carries identity, modalities and the resilient call helpers. Concrete
// connectors embed it and implement Call.
type Base struct {
	name       string
	modalities []core.Modality
	opts       Options
}

// NewBase builds a Base with DefaultTimeout and DefaultRetryPolicy unless
// overridden.
func NewBase(name string, modalities []core.Modality, optFns ...func(o *Options)) Base {
	opts := Options{
		Timeout: DefaultTimeout,
		Retry:   DefaultRetryPolicy,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return Base{name: name, modalities: slices.Clone(modalities), opts: opts}
}

// Name implements core.Connector.
func (b Base) Name() string { return b.name }

// Modalities implements core.Connector.
func (b Base) Modalities() []core.Modality { return slices.Clone(b.modalities) }

// Timeout returns the connector's own per-step budget.
func (b Base) Timeout() time.Duration { return b.opts.Timeout }

// RetryPolicy returns the policy applied by InvokeWithRetry.
func (b Base) RetryPolicy() RetryPolicy { return b.opts.Retry }

// Logger returns the connector logger (never nil).
func (b Base) Logger() logging.Logger { return b.opts.Logger }

// Invoke runs fn under the connector's time budget without retrying.
func (b Base) Invoke(ctx context.Context, fn func(context.Context) error) error {
	_, err := CallWithTimeout(ctx, b.budget(ctx), func(c context.Context) (struct{}, error) {
		return struct{}{}, fn(c)
	})
	return err
}

// budget is the connector Timeout, or zero (no extra race) when ctx already
// carries a deadline.
func (b Base) budget(ctx context.Context) time.Duration {
	if _, ok := ctx.Deadline(); ok {
		return 0
	}
	return b.opts.Timeout
}

// InvokeWithRetry runs fn under the connector's time budget, retrying
// retryable failures with linear backoff. The budget spans all attempts.
func (b Base) InvokeWithRetry(ctx context.Context, fn func(context.Context) error) error {
	return b.Invoke(ctx, func(c context.Context) error {
		return Retry(c, b.opts.Retry, fn)
	})
}

// Fail converts err into an error-bearing response attributed to this connector.
func (b Base) Fail(modality core.Modality, err error) core.ProviderResponse {
	var pe *core.ProviderError
	switch {
	case errors.As(err, &pe):
		err = core.NewProviderError(b.name, pe.Kind, pe.Err)
	case err != nil:
		err = core.NewProviderError(b.name, core.KindOf(err), err)
	}
	b.opts.Logger.Debug("connector call failed", "provider", b.name, "error", err)
	return core.NewErrorResponse(b.name, modality, err)
}

// MissingCredential returns the CredentialMissing response for this connector.
func (b Base) MissingCredential(modality core.Modality) core.ProviderResponse {
	return b.Fail(modality, core.NewProviderError(b.name, core.KindCredentialMissing,
		fmt.Errorf("%s API key not configured: %w", b.name, core.ErrCredentialMissing)))
}

// Respond stamps resp with this connector's identity and default sources and
// scrubs PII from its text fields.
func (b Base) Respond(resp core.ProviderResponse) core.ProviderResponse {
	resp.Provider = b.name
	resp.Text = ScrubPII(resp.Text)
	resp.HTML = ScrubPII(resp.HTML)
	if len(resp.Sources) == 0 && len(b.opts.Sources) > 0 {
		resp.Sources = slices.Clone(b.opts.Sources)
	}
	if resp.Timestamp.IsZero() {
		resp.Timestamp = time.Now()
	}
	return resp
}

// Normalize maps payload via the package level Normalize and scrubs it.
func (b Base) Normalize(modality core.Modality, payload []byte) core.ProviderResponse {
	return b.Respond(Normalize(b.name, modality, payload))
}
