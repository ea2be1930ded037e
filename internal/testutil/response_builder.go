package testutil

import (
	"time"

	"github.com/hupe1980/omnimesh/core"
)

// ResponseBuilder provides a fluent helper for constructing provider
// responses in tests.
// Example:
//
//	r := NewResponseBuilder("openai").Text("hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ResponseBuilder struct {
	resp core.ProviderResponse
}

// NewResponseBuilder creates a text response builder for provider.
func NewResponseBuilder(provider string) *ResponseBuilder {
	return &ResponseBuilder{resp: core.ProviderResponse{
		Provider:  provider,
		Modality:  core.ModalityText,
		Timestamp: time.Unix(0, 0).UTC(),
	}}
}

// Modality sets the modality tag (chainable).
func (b *ResponseBuilder) Modality(m core.Modality) *ResponseBuilder { b.resp.Modality = m; return b }

// Text sets the response text (chainable).
func (b *ResponseBuilder) Text(t string) *ResponseBuilder { b.resp.Text = t; return b }

// HTML sets the html body (chainable).
func (b *ResponseBuilder) HTML(h string) *ResponseBuilder { b.resp.HTML = h; return b }

// File appends a file entry (chainable).
func (b *ResponseBuilder) File(name, url string) *ResponseBuilder {
	b.resp.Files = append(b.resp.Files, core.File{Name: name, URL: url})
	return b
}

// Source appends a source reference (chainable).
func (b *ResponseBuilder) Source(s string) *ResponseBuilder {
	b.resp.Sources = append(b.resp.Sources, s)
	return b
}

// Error marks the response failed with the given kind (chainable).
func (b *ResponseBuilder) Error(kind core.ErrorKind, msg string) *ResponseBuilder {
	b.resp.Error = msg
	b.resp.ErrorKind = kind
	return b
}

// Build returns the constructed response.
func (b *ResponseBuilder) Build() core.ProviderResponse { return b.resp }
