package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/omnimesh"
)

func newProvidersCmd(build meshBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect the provider catalog",
		Long: `Inspect the provider catalog.

Available commands:
  list    - List every registered provider with its modalities and flags
  health  - Probe every enabled provider`,
	}
	cmd.AddCommand(newProvidersListCmd(build))
	cmd.AddCommand(newProvidersHealthCmd(build))
	return cmd
}

func newProvidersListCmd(build meshBuilder) *cobra.Command {
	var (
		output string
		probe  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every registered provider",
		Long: `List every registered provider with its supported modalities and
whether it is enabled. Healthy is only meaningful with --health.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMesh(cmd, build, func(ctx context.Context, mesh *omnimesh.Mesh) error {
				if probe {
					mesh.HealthCheckAll(ctx)
				}
				caps := mesh.ListCapabilities()
				if output == "json" {
					return writeJSON(cmd.OutOrStdout(), caps)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tMODALITIES\tENABLED\tHEALTHY")
				for _, c := range caps {
					mods := make([]string, len(c.Modalities))
					for i, m := range c.Modalities {
						mods[i] = m.String()
					}
					fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", c.Name, strings.Join(mods, ","), c.Enabled, c.Healthy)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&probe, "health", false, "Probe enabled providers before listing")
	return cmd
}

func newProvidersHealthCmd(build meshBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every enabled provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMesh(cmd, build, func(ctx context.Context, mesh *omnimesh.Mesh) error {
				results := mesh.HealthCheckAll(ctx)
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no enabled providers")
					return nil
				}
				names := make([]string, 0, len(results))
				for name := range results {
					names = append(names, name)
				}
				slices.Sort(names)
				for _, name := range names {
					status := "unhealthy"
					if results[name] {
						status = "healthy"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, status)
				}
				return nil
			})
		},
	}
}
