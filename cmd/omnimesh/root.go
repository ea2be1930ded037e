package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/omnimesh"
	"github.com/hupe1980/omnimesh/config"
	"github.com/hupe1980/omnimesh/telemetry"
)

// meshBuilder constructs the Mesh for one command run. The returned shutdown
// flushes telemetry and is always non-nil on success.
type meshBuilder func(ctx context.Context) (*omnimesh.Mesh, func(context.Context) error, error)

// buildFromEnv loads the environment configuration, installs tracing when
// OTEL_ENDPOINT is set and wires the built-in provider catalog.
func buildFromEnv(ctx context.Context) (*omnimesh.Mesh, func(context.Context) error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	shutdown, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return nil, nil, err
	}
	return omnimesh.NewFromConfig(cfg), shutdown, nil
}

// withMesh runs fn against a freshly built Mesh and flushes telemetry after.
func withMesh(cmd *cobra.Command, build meshBuilder, fn func(ctx context.Context, mesh *omnimesh.Mesh) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	mesh, shutdown, err := build(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
	return fn(ctx, mesh)
}

func newRootCmd(build meshBuilder) *cobra.Command {
	root := &cobra.Command{
		Use:   "omnimesh",
		Short: "Ask several AI providers at once and get one answer",
		Long: `omnimesh sends a prompt to every enabled AI provider in parallel,
drops the failures and consolidates the remaining answers into a single
response with a per-provider trace.

Providers are configured through environment variables (OPENAI_API_KEY,
ANTHROPIC_API_KEY, HF_API_KEY, ENABLED_PROVIDERS, ...).`,
		// SilenceUsage is set to true to prevent printing usage message on errors
		// handled by us (e.g. missing configuration)
		SilenceUsage: true,
	}

	root.AddCommand(newAskCmd(build))
	root.AddCommand(newProvidersCmd(build))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute builds the command tree and runs it against os.Args.
func Execute(v string) error {
	root := newRootCmd(buildFromEnv)
	root.Version = v
	root.SetVersionTemplate(`{{printf "omnimesh version %s\n" .Version}}`)
	return root.Execute()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
