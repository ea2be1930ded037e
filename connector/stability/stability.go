// Package stability provides an image connector for the Stability AI REST API.
package stability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/tidwall/gjson"
)

// Name is the registry identifier of the Stability connector.
const Name = "stability"

const (
	defaultBaseURL = "https://api.stability.ai/v1"
	defaultEngine  = "stable-diffusion-xl-1024-v1-0"
	costPerSample  = 0.002
)

// Options configure the Stability connector. Generation parameters can be
// overridden per call through CallOptions.Extra using the keys cfg_scale,
// height, width, samples and steps.
type Options struct {
	connector.Options
	APIKey     string
	BaseURL    string
	Engine     string
	CfgScale   float64
	Height     int
	Width      int
	Samples    int
	Steps      int
	HTTPClient connector.HTTPDoer
}

// Connector generates images from text prompts.
type Connector struct {
	connector.Base
	opts Options
}

// New creates a Stability connector.
func New(optFns ...func(o *Options)) *Connector {
	opts := Options{
		Options: connector.Options{
			Timeout: 20 * time.Second,
			Retry:   connector.DefaultRetryPolicy,
			Sources: []string{"https://stability.ai"},
		},
		BaseURL:    defaultBaseURL,
		Engine:     defaultEngine,
		CfgScale:   7,
		Height:     1024,
		Width:      1024,
		Samples:    1,
		Steps:      30,
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{
		Base: connector.NewBase(Name, []core.Modality{core.ModalityImage}, func(o *connector.Options) { *o = opts.Options }),
		opts: opts,
	}
}

// HasCredential implements core.Credentialed.
func (c *Connector) HasCredential() bool { return c.opts.APIKey != "" }

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

func (c *Connector) buildRequest(prompt string, extra map[string]any) generationRequest {
	return generationRequest{
		TextPrompts: []textPrompt{{Text: prompt, Weight: 1}},
		CfgScale:    floatOpt(extra, "cfg_scale", c.opts.CfgScale),
		Height:      intOpt(extra, "height", c.opts.Height),
		Width:       intOpt(extra, "width", c.opts.Width),
		Samples:     intOpt(extra, "samples", c.opts.Samples),
		Steps:       intOpt(extra, "steps", c.opts.Steps),
	}
}

// Call implements core.Connector.
func (c *Connector) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	if !c.HasCredential() {
		return c.MissingCredential(core.ModalityImage)
	}
	body := c.buildRequest(req.Prompt, req.Options.Extra)
	url := fmt.Sprintf("%s/generation/%s/text-to-image", c.opts.BaseURL, c.opts.Engine)

	var payload []byte
	err := c.InvokeWithRetry(ctx, func(ctx context.Context) error {
		data, err := connector.DoJSON(ctx, c.opts.HTTPClient, http.MethodPost, url, c.headers(), body)
		if err != nil {
			return err
		}
		payload = data
		return nil
	})
	if err != nil {
		return c.Fail(core.ModalityImage, err)
	}

	var files []core.File
	gjson.GetBytes(payload, "artifacts").ForEach(func(i, a gjson.Result) bool {
		files = append(files, core.File{
			Name: fmt.Sprintf("generated-image-%d.png", i.Int()),
			URL:  "data:image/png;base64," + a.Get("base64").String(),
			Metadata: map[string]any{
				"seed":         a.Get("seed").Int(),
				"finishReason": a.Get("finishReason").String(),
			},
		})
		return true
	})
	return c.Respond(core.ProviderResponse{
		Modality: core.ModalityImage,
		Text:     fmt.Sprintf("Generated %d image(s) for: %s", len(files), req.Prompt),
		Files:    files,
	})
}

func (c *Connector) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.opts.APIKey}
}

// HealthCheck implements core.HealthChecker by reading the account endpoint.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	if !c.HasCredential() {
		return false
	}
	err := c.Invoke(ctx, func(ctx context.Context) error {
		_, err := connector.DoJSON(ctx, c.opts.HTTPClient, http.MethodGet, c.opts.BaseURL+"/user/account", c.headers(), nil)
		return err
	})
	return err == nil
}

// CostEstimate implements core.CostEstimator.
func (c *Connector) CostEstimate(_ context.Context, req core.CallRequest) float64 {
	return float64(intOpt(req.Options.Extra, "samples", c.opts.Samples)) * costPerSample
}

func intOpt(extra map[string]any, key string, def int) int {
	switch v := extra[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func floatOpt(extra map[string]any, key string, def float64) float64 {
	switch v := extra[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}
