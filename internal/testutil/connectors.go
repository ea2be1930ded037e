package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/omnimesh/core"
)

// CallFunc scripts a connector call.
type CallFunc func(ctx context.Context, req core.CallRequest) core.ProviderResponse

// FuncConnector is a core.Connector whose behavior is a CallFunc.
type FuncConnector struct {
	name       string
	modalities []core.Modality
	fn         CallFunc
	calls      atomic.Int64
	started    chan struct{}
	once       sync.Once
}

// NewFuncConnector creates a text connector running fn.
func NewFuncConnector(name string, fn CallFunc) *FuncConnector {
	return &FuncConnector{
		name:       name,
		modalities: []core.Modality{core.ModalityText},
		fn:         fn,
		started:    make(chan struct{}),
	}
}

// WithModalities overrides the supported modalities (chainable).
func (c *FuncConnector) WithModalities(m ...core.Modality) *FuncConnector {
	c.modalities = m
	return c
}

// Name implements core.Connector.
func (c *FuncConnector) Name() string { return c.name }

// Modalities implements core.Connector.
func (c *FuncConnector) Modalities() []core.Modality { return c.modalities }

// Call implements core.Connector.
func (c *FuncConnector) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	c.calls.Add(1)
	c.once.Do(func() { close(c.started) })
	return c.fn(ctx, req)
}

// Calls returns how many times Call ran.
func (c *FuncConnector) Calls() int { return int(c.calls.Load()) }

// Started is closed on the first Call.
func (c *FuncConnector) Started() <-chan struct{} { return c.started }

// Answer returns a connector that replies text after delay.
func Answer(name, text string, delay time.Duration) *FuncConnector {
	return NewFuncConnector(name, func(ctx context.Context, _ core.CallRequest) core.ProviderResponse {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return core.NewErrorResponse(name, core.ModalityText, ctx.Err())
			case <-time.After(delay):
			}
		}
		return NewResponseBuilder(name).Text(text).Build()
	})
}

// Failing returns a connector that replies with an error of kind.
func Failing(name string, kind core.ErrorKind, msg string) *FuncConnector {
	return NewFuncConnector(name, func(context.Context, core.CallRequest) core.ProviderResponse {
		return core.NewErrorResponse(name, core.ModalityText, core.NewProviderError(name, kind, errors.New(msg)))
	})
}

// Hanging returns a connector that ignores its context and returns after
// hold. It models a backend that does not honor cancellation.
func Hanging(name string, hold time.Duration) *FuncConnector {
	return NewFuncConnector(name, func(context.Context, core.CallRequest) core.ProviderResponse {
		time.Sleep(hold)
		return NewResponseBuilder(name).Text("too late").Build()
	})
}

// Panicking returns a connector whose Call panics.
func Panicking(name string) *FuncConnector {
	return NewFuncConnector(name, func(context.Context, core.CallRequest) core.ProviderResponse {
		panic("connector exploded")
	})
}

// StubSynthesizer is a scripted core.Synthesizer that records its input.
type StubSynthesizer struct {
	ID   string
	Text string
	Err  error

	mu       sync.Mutex
	messages [][]core.Message
}

// Name implements core.Synthesizer.
func (s *StubSynthesizer) Name() string {
	if s.ID == "" {
		return "stub-combiner"
	}
	return s.ID
}

// Synthesize implements core.Synthesizer.
func (s *StubSynthesizer) Synthesize(_ context.Context, messages []core.Message) (string, error) {
	s.mu.Lock()
	s.messages = append(s.messages, messages)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

// Messages returns the conversations received so far.
func (s *StubSynthesizer) Messages() [][]core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]core.Message(nil), s.messages...)
}

// StaticMemory is a core.MemoryProvider backed by a map.
type StaticMemory map[string]string

// Context implements core.MemoryProvider.
func (m StaticMemory) Context(_ context.Context, callerID string) (string, error) {
	return m[callerID], nil
}
