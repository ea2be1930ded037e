// Package anthropic provides a text connector and a synthesizer for the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/tidwall/gjson"
)

// Name is the registry identifier of the Anthropic connector.
const Name = "anthropic"

// CombinerName identifies the Anthropic synthesizer in combined results.
const CombinerName = "anthropic-combiner"

// Options configures the Anthropic connector (model id, temperature, max
// tokens, API key).
type Options struct {
	connector.Options
	APIKey      string
	BaseURL     string
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

func defaultOptions() Options {
	return Options{
		Options: connector.Options{
			Timeout: connector.DefaultTimeout,
			Retry:   connector.DefaultRetryPolicy,
			Sources: []string{"https://docs.anthropic.com"},
		},
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Connector wraps the Messages API behind core.Connector.
type Connector struct {
	connector.Base
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic connector using the official client.
func New(optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	client := anthropic.NewClient(clientOpts...)
	return NewFromClient(&client, func(o *Options) { *o = opts })
}

// NewFromClient creates an Anthropic connector from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{
		Base:   connector.NewBase(Name, []core.Modality{core.ModalityText}, func(o *connector.Options) { *o = opts.Options }),
		client: client,
		opts:   opts,
	}
}

// HasCredential implements core.Credentialed.
func (c *Connector) HasCredential() bool { return c.opts.APIKey != "" }

// Call implements core.Connector.
func (c *Connector) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	if !c.HasCredential() {
		return c.MissingCredential(core.ModalityText)
	}
	params := c.buildParams(req.Options, []core.Message{{Role: core.RoleUser, Content: req.Prompt}})

	var msg *anthropic.Message
	err := c.InvokeWithRetry(ctx, func(ctx context.Context) error {
		resp, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return classify(err)
		}
		msg = resp
		return nil
	})
	if err != nil {
		return c.Fail(core.ModalityText, err)
	}
	return c.Respond(core.ProviderResponse{
		Modality: core.ModalityText,
		Text:     textOf(msg),
		Raw:      gjson.Parse(msg.RawJSON()).Value(),
	})
}

// buildParams splits system messages into the System blocks and merges
// per-call overrides over the connector defaults.
func (c *Connector) buildParams(o core.CallOptions, messages []core.Message) anthropic.MessageNewParams {
	model, temperature, maxTokens := c.opts.Model, c.opts.Temperature, c.opts.MaxTokens
	if o.Model != "" {
		model = anthropic.Model(o.Model)
	}
	if o.Temperature > 0 {
		temperature = o.Temperature
	}
	if o.MaxTokens > 0 {
		maxTokens = o.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
	}
	for _, m := range messages {
		if m.Role == core.RoleSystem {
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	return params
}

// textOf concatenates the text blocks of a message.
func textOf(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String()
}

// HealthCheck implements core.HealthChecker by listing models.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	if !c.HasCredential() {
		return false
	}
	err := c.Invoke(ctx, func(ctx context.Context) error {
		_, err := c.client.Models.List(ctx, anthropic.ModelListParams{})
		return err
	})
	return err == nil
}

// Synthesizer returns a consolidation capability sharing this connector's
// client and model.
func (c *Connector) Synthesizer() *Synthesizer {
	return &Synthesizer{conn: c}
}

// Synthesizer implements core.Synthesizer on the Messages API.
type Synthesizer struct {
	conn *Connector
}

// NewSynthesizer creates a standalone Anthropic synthesizer.
func NewSynthesizer(optFns ...func(o *Options)) *Synthesizer {
	return New(optFns...).Synthesizer()
}

// Name implements core.Synthesizer.
func (s *Synthesizer) Name() string { return CombinerName }

// Synthesize implements core.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, messages []core.Message) (string, error) {
	if !s.conn.HasCredential() {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation,
			fmt.Errorf("%s API key not configured: %w", Name, core.ErrCredentialMissing))
	}
	resp, err := s.conn.client.Messages.New(ctx, s.conn.buildParams(core.CallOptions{}, messages))
	if err != nil {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation, fmt.Errorf("anthropic api error: %w", err))
	}
	text := textOf(resp)
	if text == "" {
		return "", core.NewProviderError(CombinerName, core.KindConsolidation, errors.New("empty completion"))
	}
	return text, nil
}

// classify maps SDK errors onto the error taxonomy.
func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return connector.StatusError(apiErr.StatusCode, []byte(apiErr.RawJSON()))
	}
	return connector.ClassifyTransport(err)
}
