package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/omnimesh/core"
	"github.com/stretchr/testify/assert"
)

func TestMock_Call(t *testing.T) {
	m := NewMock("m")
	m.AddResponse("hi", "hello")

	r := m.Call(context.Background(), core.CallRequest{Prompt: "hi"})
	assert.True(t, r.Valid())
	assert.Equal(t, "hello", r.Text)
	assert.Equal(t, "m", r.Provider)

	r = m.Call(context.Background(), core.CallRequest{Prompt: "other"})
	assert.Equal(t, "Mock response to: other", r.Text)
	assert.Equal(t, 2, m.Calls())
}

func TestMock_Error(t *testing.T) {
	m := NewMock("m", func(o *MockOptions) {
		o.Err = core.NewProviderError("", core.KindRejected, errors.New("nope"))
	})
	r := m.Call(context.Background(), core.CallRequest{Prompt: "x"})
	assert.False(t, r.Valid())
	assert.Equal(t, core.KindRejected, r.ErrorKind)
}

func TestMock_DelayRespectsContext(t *testing.T) {
	m := NewMock("slow", func(o *MockOptions) { o.Delay = time.Second })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	r := m.Call(ctx, core.CallRequest{Prompt: "x"})
	assert.False(t, r.Valid())
	assert.Equal(t, core.KindTimeout, r.ErrorKind)
}

func TestMock_OptionalInterfaces(t *testing.T) {
	m := NewMock("m", func(o *MockOptions) {
		o.Healthy = false
		o.Credential = false
		o.Cost = 0.5
		o.Modalities = []core.Modality{core.ModalityImage}
	})
	assert.False(t, m.HealthCheck(context.Background()))
	assert.False(t, core.HasCredential(m))
	assert.Equal(t, 0.5, m.CostEstimate(context.Background(), core.CallRequest{}))
	assert.True(t, core.Supports(m, core.ModalityImage))
	assert.False(t, core.Supports(m, core.ModalityText))
}
