package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/rancher-client/client"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			projects, err := c.FetchProjects(cmd.Context())
			if err != nil {
				return err
			}
			log.Debug().Int("count", len(projects.Data)).Msg("projects fetched")

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, projects.Data)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, p := range projects.Data {
				fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
			}
			return tw.Flush()
		},
	}
}

func newWorkloadsCmd(opts *rootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "workloads",
		Short: "List the workloads of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			p, err := findProject(cmd.Context(), c, project)
			if err != nil {
				return err
			}
			workloads, err := c.FetchProjectWorkloads(cmd.Context(), p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, workloads.Data)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAMESPACE\tPAUSED\tIMAGES")
			for _, w := range workloads.Data {
				images := make([]string, 0, len(w.Containers))
				for _, ct := range w.Containers {
					images = append(images, ct.Image)
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", w.ID, w.NamespaceID, w.Paused, strings.Join(images, ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newSetImageCmd(opts *rootOptions) *cobra.Command {
	var project, workload, image, container string

	cmd := &cobra.Command{
		Use:   "set-image",
		Short: "Point a workload's first container at a new image and redeploy it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := findProject(ctx, c, project)
			if err != nil {
				return err
			}
			w, err := findWorkload(ctx, c, p, workload)
			if err != nil {
				return err
			}
			if container == "" {
				container = w.Name
			}

			start := time.Now()
			updated, err := c.ChangeImage(ctx, w, client.DeploymentConfig{Image: image, Name: container})
			elapsed := time.Since(start)
			if err != nil {
				if client.IsPartialRedeploy(err) {
					log.Warn().Err(err).Str("workload", w.ID).Msg("workload redeployed once only; re-run set-image to restore pull secrets")
				}
				return err
			}
			log.Info().Str("workload", updated.ID).Str("image", image).Dur("elapsed", elapsed).Msg("image changed")

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, updated)
			}
			_, err = fmt.Fprintf(out, "Workload %s now runs %s\n", updated.ID, image)
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name (required)")
	cmd.Flags().StringVar(&workload, "workload", "", "Workload ID or name (required)")
	cmd.Flags().StringVar(&image, "image", "", "New container image (required)")
	cmd.Flags().StringVar(&container, "container", "", "Container name used if the workload must be recreated (defaults to the workload name)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("workload")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newActionCmd(opts *rootOptions, action string, invoke func(*client.Client, context.Context, client.Workload) error) *cobra.Command {
	var project, workload string

	cmd := &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("Invoke the %s action of a workload", action),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			p, err := findProject(cmd.Context(), c, project)
			if err != nil {
				return err
			}
			w, err := findWorkload(cmd.Context(), c, p, workload)
			if err != nil {
				return err
			}
			if err := invoke(c, cmd.Context(), w); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", action, w.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name (required)")
	cmd.Flags().StringVar(&workload, "workload", "", "Workload ID or name (required)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
