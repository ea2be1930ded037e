// Package openai provides a text connector and a synthesizer backed by the
// OpenAI Chat Completions API. Both share one SDK client; the SDK's own retry
// loop is disabled so that the linear connector.Retry policy applies.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Name is the registry identifier of the OpenAI connector.
const Name = "openai"

// CombinerName identifies the OpenAI synthesizer in combined results.
const CombinerName = "openai-combiner"

// Per million tokens, gpt-4o-mini list prices.
const (
	inputPricePerMTok  = 0.15
	outputPricePerMTok = 0.60
)

// Options configure the OpenAI connector.
type Options struct {
	connector.Options
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

func defaultOptions() Options {
	return Options{
		Options: connector.Options{
			Timeout: connector.DefaultTimeout,
			Retry:   connector.DefaultRetryPolicy,
			Sources: []string{"https://platform.openai.com"},
		},
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Connector wraps the Chat Completions API behind core.Connector.
type Connector struct {
	connector.Base
	client *openai.Client
	opts   Options
}

// New creates an OpenAI connector with its own SDK client.
func New(optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	client := openai.NewClient(clientOptions(opts)...)
	return newConnector(&client, opts)
}

// NewFromClient creates an OpenAI connector from an existing client. The
// client is used as is; APIKey still decides credential presence.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newConnector(client, opts)
}

func newConnector(client *openai.Client, opts Options) *Connector {
	return &Connector{
		Base:   connector.NewBase(Name, []core.Modality{core.ModalityText}, func(o *connector.Options) { *o = opts.Options }),
		client: client,
		opts:   opts,
	}
}

func clientOptions(opts Options) []option.RequestOption {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	return reqOpts
}

// HasCredential implements core.Credentialed.
func (c *Connector) HasCredential() bool { return c.opts.APIKey != "" }

// Call implements core.Connector.
func (c *Connector) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	if !c.HasCredential() {
		return c.MissingCredential(core.ModalityText)
	}
	params := c.buildParams(req.Options, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)})

	var completion *openai.ChatCompletion
	err := c.InvokeWithRetry(ctx, func(ctx context.Context) error {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return classify(err)
		}
		completion = resp
		return nil
	})
	if err != nil {
		return c.Fail(core.ModalityText, err)
	}
	return c.Normalize(core.ModalityText, []byte(completion.RawJSON()))
}

// buildParams merges per-call overrides over the connector defaults.
func (c *Connector) buildParams(o core.CallOptions, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	model, temperature, maxTokens := c.opts.Model, c.opts.Temperature, c.opts.MaxTokens
	if o.Model != "" {
		model = o.Model
	}
	if o.Temperature > 0 {
		temperature = o.Temperature
	}
	if o.MaxTokens > 0 {
		maxTokens = o.MaxTokens
	}
	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}
}

// HealthCheck implements core.HealthChecker by listing models.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	if !c.HasCredential() {
		return false
	}
	err := c.Invoke(ctx, func(ctx context.Context) error {
		_, err := c.client.Models.List(ctx)
		return err
	})
	return err == nil
}

// CostEstimate implements core.CostEstimator. Input tokens are approximated
// as one per four prompt characters.
func (c *Connector) CostEstimate(_ context.Context, req core.CallRequest) float64 {
	inputTokens := math.Ceil(float64(len(req.Prompt)) / 4)
	outputTokens := float64(c.opts.MaxTokens)
	if req.Options.MaxTokens > 0 {
		outputTokens = float64(req.Options.MaxTokens)
	}
	return (inputTokens*inputPricePerMTok + outputTokens*outputPricePerMTok) / 1_000_000
}

// Synthesizer returns a consolidation capability sharing this connector's
// client and model.
func (c *Connector) Synthesizer() *Synthesizer {
	return &Synthesizer{conn: c}
}

// Synthesizer implements core.Synthesizer on Chat Completions.
type Synthesizer struct {
	conn *Connector
}

// NewSynthesizer creates a standalone OpenAI synthesizer.
func NewSynthesizer(optFns ...func(o *Options)) *Synthesizer {
	return New(optFns...).Synthesizer()
}

// Name implements core.Synthesizer.
func (s *Synthesizer) Name() string { return CombinerName }

// Synthesize implements core.Synthesizer. Any failure, including an empty
// completion, is reported as a consolidation error.
func (s *Synthesizer) Synthesize(ctx context.Context, messages []core.Message) (string, error) {
	if !s.conn.HasCredential() {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation,
			fmt.Errorf("%s API key not configured: %w", Name, core.ErrCredentialMissing))
	}
	params := s.conn.buildParams(core.CallOptions{}, buildMessages(messages))
	resp, err := s.conn.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation, fmt.Errorf("openai api error: %w", err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation, errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classify maps SDK errors onto the error taxonomy.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return connector.StatusError(apiErr.StatusCode, []byte(apiErr.RawJSON()))
	}
	return connector.ClassifyTransport(err)
}
