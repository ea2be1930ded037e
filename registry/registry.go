package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/omnimesh/connector"
	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout bounds a single health probe.
const DefaultProbeTimeout = 5 * time.Second

// Options configure a Registry.
type Options struct {
	// AllowList, when non-empty, replaces the credential policy: only the
	// listed names start enabled.
	AllowList []string
	// ProbeTimeout bounds each connector's health probe.
	ProbeTimeout time.Duration
	Logger       logging.Logger
}

// Registry owns the known connectors and their enabled/healthy flags.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]core.Connector
	order      []string
	enabled    map[string]bool
	healthy    map[string]bool
	allow      map[string]struct{}
	opts       Options
}

// New creates an empty Registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{ProbeTimeout: DefaultProbeTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	var allow map[string]struct{}
	for _, name := range opts.AllowList {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if allow == nil {
			allow = make(map[string]struct{})
		}
		allow[name] = struct{}{}
	}

	return &Registry{
		connectors: make(map[string]core.Connector),
		enabled:    make(map[string]bool),
		healthy:    make(map[string]bool),
		allow:      allow,
		opts:       opts,
	}
}

// Register adds connectors in order. A duplicate name overwrites the
// connector but keeps its position and enabled flag.
func (r *Registry) Register(connectors ...core.Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range connectors {
		if c == nil {
			continue
		}
		name := c.Name()
		if _, exists := r.connectors[name]; !exists {
			r.order = append(r.order, name)
			r.enabled[name] = r.initiallyEnabled(c)
		}
		r.connectors[name] = c
		r.opts.Logger.Debug("connector registered", "provider", name, "enabled", r.enabled[name])
	}
}

func (r *Registry) initiallyEnabled(c core.Connector) bool {
	if r.allow != nil {
		_, ok := r.allow[c.Name()]
		return ok
	}
	return core.HasCredential(c)
}

// Get returns the connector registered under name, enabled or not.
func (r *Registry) Get(name string) (core.Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[name]
	if !ok {
		return nil, core.NewProviderError(name, core.KindNotFound, nil)
	}
	return c, nil
}

// ListByModality returns the enabled connectors serving m in registration order.
func (r *Registry) ListByModality(m core.Modality) []core.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Connector, 0, len(r.order))
	for _, name := range r.order {
		c := r.connectors[name]
		if r.enabled[name] && core.Supports(c, m) {
			out = append(out, c)
		}
	}
	return out
}

// Enabled returns every enabled connector in registration order.
func (r *Registry) Enabled() []core.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Connector, 0, len(r.order))
	for _, name := range r.order {
		if r.enabled[name] {
			out = append(out, r.connectors[name])
		}
	}
	return out
}

// All returns every registered connector in registration order.
func (r *Registry) All() []core.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Connector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.connectors[name])
	}
	return out
}

// Enable marks name enabled. It returns false if name is not registered.
func (r *Registry) Enable(name string) bool { return r.setEnabled(name, true) }

// Disable marks name disabled without unregistering it. It returns false if
// name is not registered.
func (r *Registry) Disable(name string) bool { return r.setEnabled(name, false) }

func (r *Registry) setEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connectors[name]; !ok {
		return false
	}
	r.enabled[name] = enabled
	r.opts.Logger.Info("connector toggled", "provider", name, "enabled", enabled)
	return true
}

// IsEnabled reports whether name is registered and enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// ListCapabilities returns the admin view of every registered connector.
// Healthy reflects the last HealthCheckAll and is false until probed.
func (r *Registry) ListCapabilities() []core.CapabilityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.CapabilityDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, core.CapabilityDescriptor{
			Name:       name,
			Modalities: r.connectors[name].Modalities(),
			Enabled:    r.enabled[name],
			Healthy:    r.healthy[name],
		})
	}
	return out
}

// HealthCheckAll probes every enabled connector concurrently. A probe that
// fails, panics or exceeds ProbeTimeout yields false for that connector only.
// Results are remembered for ListCapabilities.
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]bool {
	targets := r.Enabled()
	results := make([]bool, len(targets))

	var g errgroup.Group
	for i, c := range targets {
		g.Go(func() error {
			results[i] = r.probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]bool, len(targets))
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range targets {
		out[c.Name()] = results[i]
		r.healthy[c.Name()] = results[i]
	}
	return out
}

// probe uses the connector's own HealthChecker, or a trial call when it has
// none.
func (r *Registry) probe(ctx context.Context, c core.Connector) bool {
	healthy, err := connector.CallWithTimeout(ctx, r.opts.ProbeTimeout, func(ctx context.Context) (bool, error) {
		if hc, ok := c.(core.HealthChecker); ok {
			return hc.HealthCheck(ctx), nil
		}
		return !c.Call(ctx, core.CallRequest{Prompt: "test"}).Failed(), nil
	})
	if err != nil {
		r.opts.Logger.Warn("health probe failed", "provider", c.Name(), "error", err)
		return false
	}
	return healthy
}
