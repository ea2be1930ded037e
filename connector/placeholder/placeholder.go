// Package placeholder provides video connectors for providers that need
// partner or enterprise access. They register normally so they appear in
// the capability listing, but every call reports that access is required.
package placeholder

import (
	"context"
	"errors"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
)

// Registry identifiers of the placeholder connectors.
const (
	RunwayName         = "runway"
	PikaName           = "pika"
	ReplicateVideoName = "replicate-video"
)

// Options configure a placeholder connector.
type Options struct {
	connector.Options
	// APIKey is only checked by connectors that require one.
	APIKey string
}

// Connector is a video connector that never reaches a backend.
type Connector struct {
	connector.Base
	opts     Options
	needsKey bool
	notice   string
	reason   string
}

func newConnector(name, source string, needsKey bool, reason, notice string, optFns []func(o *Options)) *Connector {
	opts := Options{Options: connector.Options{Sources: []string{source}}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{
		Base:     connector.NewBase(name, []core.Modality{core.ModalityVideo}, func(o *connector.Options) { *o = opts.Options }),
		opts:     opts,
		needsKey: needsKey,
		reason:   reason,
		notice:   notice,
	}
}

// NewRunway returns the Runway ML placeholder.
func NewRunway(optFns ...func(o *Options)) *Connector {
	return newConnector(RunwayName, "https://docs.runwayml.com/", false,
		"Runway ML requires enterprise access. Please contact Runway ML for API credentials.",
		"This is a placeholder connector. To enable Runway ML video generation, obtain enterprise API access.",
		optFns)
}

// NewPika returns the Pika Labs placeholder.
func NewPika(optFns ...func(o *Options)) *Connector {
	return newConnector(PikaName, "https://pika.art/", false,
		"Pika Labs API not yet publicly available.",
		"This is a placeholder connector. Pika Labs has not released a public API yet.",
		optFns)
}

// NewReplicateVideo returns the Replicate video placeholder. Unlike the
// others it requires a token before it reports the pending implementation.
func NewReplicateVideo(optFns ...func(o *Options)) *Connector {
	return newConnector(ReplicateVideoName, "https://replicate.com/docs", true,
		"Replicate video generation requires enterprise access.",
		"Video generation via Replicate is not available yet.",
		optFns)
}

// HasCredential implements core.Credentialed. Runway and Pika count as
// credentialed only when a key is configured, so they are not auto-enabled.
func (c *Connector) HasCredential() bool { return c.opts.APIKey != "" }

// Call implements core.Connector. The response always carries an error, so
// it never feeds consolidation.
func (c *Connector) Call(context.Context, core.CallRequest) core.ProviderResponse {
	if c.needsKey && !c.HasCredential() {
		return c.MissingCredential(core.ModalityVideo)
	}
	resp := c.Fail(core.ModalityVideo, core.NewProviderError(c.Name(), core.KindRejected, errors.New(c.reason)))
	resp.Text = c.notice
	return c.Respond(resp)
}

// HealthCheck implements core.HealthChecker; placeholders are never healthy.
func (c *Connector) HealthCheck(context.Context) bool { return false }
