package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/omnimesh"
	"github.com/hupe1980/omnimesh/core"
)

type askFlags struct {
	providers []string
	caller    string
	language  string
	timeout   time.Duration
	memory    bool
	model     string
	output    string
	verbose   bool
}

func newAskCmd(build meshBuilder) *cobra.Command {
	var f askFlags

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Fan a prompt out to the providers and print the consolidated answer",
		Long: `Send a prompt to the enabled text providers (or the ones named with
--provider) in parallel and print the consolidated answer.

Failed or timed-out providers never fail the command; use --verbose or
--output json to inspect every provider outcome.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output != "text" && f.output != "json" {
				return fmt.Errorf("unsupported output format %q (text, json)", f.output)
			}
			req := core.OrchestrationRequest{
				Prompt:        strings.Join(args, " "),
				CallerID:      f.caller,
				Providers:     f.providers,
				Timeout:       f.timeout,
				IncludeMemory: f.memory,
				Language:      f.language,
				Options:       core.CallOptions{Model: f.model},
			}
			return withMesh(cmd, build, func(ctx context.Context, mesh *omnimesh.Mesh) error {
				res := mesh.Orchestrate(ctx, req)
				if f.output == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				printResult(cmd, res, f.verbose)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&f.providers, "provider", "p", nil, "Explicit providers to ask (repeatable or comma separated)")
	cmd.Flags().StringVar(&f.caller, "caller", "cli", "Caller identity used for memory lookups")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "Output language (pt-BR, en-US, es-ES)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-provider timeout (default from PROVIDER_TIMEOUT_MS)")
	cmd.Flags().BoolVar(&f.memory, "memory", false, "Include caller memory context in consolidation")
	cmd.Flags().StringVar(&f.model, "model", "", "Model override sent to every dispatched provider; combine with --provider to target one")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print every provider outcome")
	return cmd
}

func printResult(cmd *cobra.Command, res core.CombinedResult, verbose bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Combined)
	if !verbose {
		return
	}
	fmt.Fprintf(out, "\ncombiner: %s (request %s)\n", res.Combiner, res.RequestID)
	for _, r := range res.ProviderResponses {
		switch {
		case r.Failed():
			fmt.Fprintf(out, "  %-16s %s: %s\n", r.Provider, r.ErrorKind, r.Error)
		default:
			fmt.Fprintf(out, "  %-16s ok (%d chars)\n", r.Provider, len(r.Text))
		}
	}
	for _, t := range res.Trace {
		fmt.Fprintf(out, "  trace %s: %q\n", t.Provider, t.Excerpt)
	}
}
