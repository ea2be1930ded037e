package placeholder

import (
	"context"
	"testing"

	"github.com/hupe1980/omnimesh/core"
	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Connector{
		NewRunway(),
		NewPika(),
		NewReplicateVideo(func(o *Options) { o.APIKey = "r8_x" }),
	} {
		t.Run(c.Name(), func(t *testing.T) {
			resp := c.Call(ctx, core.CallRequest{Prompt: "a cat surfing"})
			assert.Equal(t, c.Name(), resp.Provider)
			assert.Equal(t, core.ModalityVideo, resp.Modality)
			assert.Equal(t, core.KindRejected, resp.ErrorKind)
			assert.NotEmpty(t, resp.Text)
			assert.NotEmpty(t, resp.Sources)
			assert.False(t, resp.Valid())
			assert.False(t, c.HealthCheck(ctx))
			assert.Equal(t, []core.Modality{core.ModalityVideo}, c.Modalities())
		})
	}
}

func TestReplicateVideo_MissingToken(t *testing.T) {
	c := NewReplicateVideo()
	resp := c.Call(context.Background(), core.CallRequest{Prompt: "x"})
	assert.Equal(t, core.KindCredentialMissing, resp.ErrorKind)
	assert.Empty(t, resp.Text)
}

func TestHasCredential(t *testing.T) {
	assert.False(t, NewRunway().HasCredential())
	assert.True(t, NewPika(func(o *Options) { o.APIKey = "k" }).HasCredential())
}
