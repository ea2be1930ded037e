package connector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/omnimesh/core"
)

// MockOptions configure a Mock connector.
type MockOptions struct {
	Modalities []core.Modality
	// Delay is waited (honoring ctx) before answering.
	Delay time.Duration
	// Err, when set, turns every call into an error response.
	Err error
	// Healthy is returned by HealthCheck.
	Healthy bool
	// Credential is returned by HasCredential.
	Credential bool
	// Cost is returned by CostEstimate.
	Cost float64
}

// Mock is a lightweight in-memory Connector useful for tests & examples.
type Mock struct {
	Base
	opts      MockOptions
	mu        sync.RWMutex
	responses map[string]string
	calls     atomic.Int64
}

// NewMock constructs a healthy, credentialed text Mock.
func NewMock(name string, optFns ...func(o *MockOptions)) *Mock {
	opts := MockOptions{
		Modalities: []core.Modality{core.ModalityText},
		Healthy:    true,
		Credential: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if len(opts.Modalities) == 0 {
		opts.Modalities = []core.Modality{core.ModalityText}
	}
	return &Mock{
		Base:      NewBase(name, opts.Modalities, func(o *Options) { o.Timeout = 0 }),
		opts:      opts,
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *Mock) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Calls returns how many times Call was invoked.
func (m *Mock) Calls() int { return int(m.calls.Load()) }

// Call implements core.Connector.
func (m *Mock) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	m.calls.Add(1)
	modality := m.opts.Modalities[0]
	if m.opts.Delay > 0 {
		timer := time.NewTimer(m.opts.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return m.Fail(modality, ctx.Err())
		case <-timer.C:
		}
	}
	if m.opts.Err != nil {
		return m.Fail(modality, m.opts.Err)
	}

	m.mu.RLock()
	text, ok := m.responses[req.Prompt]
	m.mu.RUnlock()
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return m.Respond(core.ProviderResponse{Modality: modality, Text: text})
}

// HealthCheck implements core.HealthChecker.
func (m *Mock) HealthCheck(context.Context) bool { return m.opts.Healthy }

// HasCredential implements core.Credentialed.
func (m *Mock) HasCredential() bool { return m.opts.Credential }

// CostEstimate implements core.CostEstimator.
func (m *Mock) CostEstimate(context.Context, core.CallRequest) float64 { return m.opts.Cost }
