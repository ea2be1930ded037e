package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mock(name string, fns ...func(o *connector.MockOptions)) *connector.Mock {
	return connector.NewMock(name, fns...)
}

func noCredential(o *connector.MockOptions) { o.Credential = false }

func image(o *connector.MockOptions) { o.Modalities = []core.Modality{core.ModalityImage} }

func names(cs []core.Connector) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func TestRegister_CredentialPolicy(t *testing.T) {
	r := New()
	r.Register(mock("a"), mock("b", noCredential), mock("c"))

	assert.True(t, r.IsEnabled("a"))
	assert.False(t, r.IsEnabled("b"))
	assert.True(t, r.IsEnabled("c"))
	assert.Equal(t, []string{"a", "c"}, names(r.ListByModality(core.ModalityText)))
}

func TestRegister_AllowListTakesPrecedence(t *testing.T) {
	r := New(func(o *Options) { o.AllowList = []string{" b ", "missing"} })
	r.Register(mock("a"), mock("b", noCredential))

	assert.False(t, r.IsEnabled("a"))
	assert.True(t, r.IsEnabled("b"))
	assert.False(t, r.IsEnabled("missing"))
}

func TestRegister_DuplicateOverwritesInPlace(t *testing.T) {
	r := New()
	first := mock("a")
	r.Register(first, mock("b"))
	r.Disable("a")

	second := mock("a", image)
	r.Register(second)

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"a", "b"}, names(r.All()))
	assert.False(t, r.IsEnabled("a"))
}

func TestGet_NotFound(t *testing.T) {
	_, err := New().Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestListByModality_OrderAndFilter(t *testing.T) {
	r := New()
	r.Register(mock("img", image), mock("t1"), mock("t2"))

	assert.Equal(t, []string{"t1", "t2"}, names(r.ListByModality(core.ModalityText)))
	assert.Equal(t, []string{"img"}, names(r.ListByModality(core.ModalityImage)))
	assert.Empty(t, r.ListByModality(core.ModalityMIDI))
}

func TestEnableDisable(t *testing.T) {
	r := New()
	r.Register(mock("a"), mock("b"))

	assert.True(t, r.Disable("a"))
	assert.Equal(t, []string{"b"}, names(r.ListByModality(core.ModalityText)))

	// Disabled connectors stay resolvable by name.
	c, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", c.Name())

	assert.True(t, r.Enable("a"))
	assert.Equal(t, []string{"a", "b"}, names(r.ListByModality(core.ModalityText)))

	assert.False(t, r.Enable("zzz"))
	assert.False(t, r.Disable("zzz"))
}

func TestListCapabilities(t *testing.T) {
	r := New()
	r.Register(mock("a"), mock("b", noCredential, image))

	caps := r.ListCapabilities()
	require.Len(t, caps, 2)
	assert.Equal(t, core.CapabilityDescriptor{
		Name: "a", Modalities: []core.Modality{core.ModalityText}, Enabled: true, Healthy: false,
	}, caps[0])
	assert.False(t, caps[1].Enabled)

	r.HealthCheckAll(context.Background())
	assert.True(t, r.ListCapabilities()[0].Healthy)
}

type panicky struct{ *connector.Mock }

func (panicky) HealthCheck(context.Context) bool { panic("probe exploded") }

type hanging struct{ *connector.Mock }

func (hanging) HealthCheck(ctx context.Context) bool {
	<-ctx.Done()
	return true
}

// bare has no HealthChecker, so the registry probes with a trial call.
type bare struct{ c *connector.Mock }

func (b bare) Name() string { return b.c.Name() }
func (b bare) Modalities() []core.Modality { return b.c.Modalities() }
func (b bare) Call(ctx context.Context, req core.CallRequest) core.ProviderResponse {
	return b.c.Call(ctx, req)
}

func TestHealthCheckAll_IsolatesFailures(t *testing.T) {
	r := New(func(o *Options) { o.ProbeTimeout = 50 * time.Millisecond })
	r.Register(
		mock("ok"),
		mock("sick", func(o *connector.MockOptions) { o.Healthy = false }),
		panicky{mock("panics")},
		hanging{mock("hangs")},
		bare{mock("bare")},
		mock("off", noCredential),
	)

	start := time.Now()
	got := r.HealthCheckAll(context.Background())
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, map[string]bool{
		"ok":     true,
		"sick":   false,
		"panics": false,
		"hangs":  false,
		"bare":   true,
	}, got)
}

func TestConcurrentToggleAndResolve(t *testing.T) {
	r := New()
	r.Register(mock("a"), mock("b"), mock("c"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Disable("b")
			r.Enable("b")
		}()
		go func() {
			defer wg.Done()
			got := names(r.ListByModality(core.ModalityText))
			assert.Contains(t, [][]string{{"a", "b", "c"}, {"a", "c"}}, got)
		}()
	}
	wg.Wait()
}
