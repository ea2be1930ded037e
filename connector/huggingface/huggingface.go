// Package huggingface provides a text and audio connector for the Hugging
// Face Inference API.
package huggingface

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
)

// Name is the registry identifier of the Hugging Face connector.
const Name = "huggingface"

const (
	defaultBaseURL    = "https://api-inference.huggingface.co/models"
	defaultModel      = "meta-llama/Llama-3.2-3B-Instruct"
	defaultMusicModel = "facebook/musicgen-small"
	healthModel       = "meta-llama/Llama-3.2-1B"
)

// Options configure the Hugging Face connector.
type Options struct {
	connector.Options
	APIKey     string
	BaseURL    string
	Model      string
	MusicModel string
	// MusicTimeout bounds GenerateMusic, which is much slower than text.
	MusicTimeout time.Duration
	// MusicDuration is the default clip length in seconds.
	MusicDuration int
	HTTPClient    connector.HTTPDoer
}

// Connector calls text-generation models and MusicGen.
type Connector struct {
	connector.Base
	opts Options
}

// New creates a Hugging Face connector.
func New(optFns ...func(o *Options)) *Connector {
	opts := Options{
		Options: connector.Options{
			Timeout: connector.DefaultTimeout,
			Retry:   connector.DefaultRetryPolicy,
			Sources: []string{"https://huggingface.co"},
		},
		BaseURL:       defaultBaseURL,
		Model:         defaultModel,
		MusicModel:    defaultMusicModel,
		MusicTimeout:  30 * time.Second,
		MusicDuration: 30,
		HTTPClient:    http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{
		Base: connector.NewBase(Name, []core.Modality{core.ModalityText, core.ModalityAudio}, func(o *connector.Options) {
			*o = opts.Options
		}),
		opts: opts,
	}
}

// HasCredential implements core.Credentialed.
func (c *Connector) HasCredential() bool { return c.opts.APIKey != "" }

func (c *Connector) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.opts.APIKey}
}

type textParameters struct {
	MaxNewTokens   int64   `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type textRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters textParameters `json:"parameters"`
}

// Call implements core.Connector for text generation.
func (c *Connector) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	if !c.HasCredential() {
		return c.MissingCredential(core.ModalityText)
	}

	model := c.opts.Model
	if req.Options.Model != "" {
		model = req.Options.Model
	}
	body := textRequest{
		Inputs:     req.Prompt,
		Parameters: textParameters{MaxNewTokens: 500, Temperature: 0.7},
	}
	if req.Options.MaxTokens > 0 {
		body.Parameters.MaxNewTokens = req.Options.MaxTokens
	}
	if req.Options.Temperature > 0 {
		body.Parameters.Temperature = req.Options.Temperature
	}

	var payload []byte
	err := c.InvokeWithRetry(ctx, func(ctx context.Context) error {
		data, err := connector.DoJSON(ctx, c.opts.HTTPClient, http.MethodPost, c.opts.BaseURL+"/"+model, c.headers(), body)
		if err != nil {
			return err
		}
		payload = data
		return nil
	})
	if err != nil {
		return c.Fail(core.ModalityText, err)
	}
	return c.Normalize(core.ModalityText, payload)
}

// GenerateMusic asks MusicGen for a clip and returns it as an audio response
// whose single file carries the clip as a data URL. A non-positive duration
// selects the default.
func (c *Connector) GenerateMusic(ctx context.Context, prompt string, duration int) core.ProviderResponse {
	if !c.HasCredential() {
		return c.MissingCredential(core.ModalityAudio)
	}
	if duration <= 0 {
		duration = c.opts.MusicDuration
	}
	body := map[string]any{
		"inputs":     prompt,
		"parameters": map[string]any{"duration": duration},
	}
	headers := c.headers()
	headers["Accept"] = "audio/wav"

	clip, err := connector.CallWithTimeout(ctx, c.opts.MusicTimeout, func(ctx context.Context) ([]byte, error) {
		return connector.DoJSON(ctx, c.opts.HTTPClient, http.MethodPost, c.opts.BaseURL+"/"+c.opts.MusicModel, headers, body)
	})
	if err != nil {
		return c.Fail(core.ModalityAudio, err)
	}
	return c.Respond(core.ProviderResponse{
		Modality: core.ModalityAudio,
		Text:     fmt.Sprintf("Generated music for: %s", prompt),
		Files: []core.File{{
			Name: "generated-music.wav",
			URL:  "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(clip),
			Metadata: map[string]any{
				"duration": duration,
				"bytes":    len(clip),
			},
		}},
	})
}

// HealthCheck implements core.HealthChecker. Any answer other than an
// authentication failure counts as healthy since cold models often reply 503.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	if !c.HasCredential() {
		return false
	}
	status, err := connector.CallWithTimeout(ctx, c.Timeout(), func(ctx context.Context) (int, error) {
		status, _, err := connector.Send(ctx, c.opts.HTTPClient, http.MethodPost, c.opts.BaseURL+"/"+healthModel,
			c.headers(), map[string]string{"inputs": "test"})
		return status, err
	})
	if err != nil {
		return false
	}
	return status != http.StatusUnauthorized && status != http.StatusForbidden
}
