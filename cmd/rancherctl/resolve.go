package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mycelian/rancher-client/client"
)

// findProject returns the project whose ID equals ref, or else the single
// project named ref.
func findProject(ctx context.Context, c *client.Client, ref string) (client.Project, error) {
	projects, err := c.FetchProjects(ctx)
	if err != nil {
		return client.Project{}, err
	}
	var named []client.Project
	for _, p := range projects.Data {
		if p.ID == ref {
			return p, nil
		}
		if p.Name == ref {
			named = append(named, p)
		}
	}
	switch len(named) {
	case 0:
		return client.Project{}, fmt.Errorf("project %q not found", ref)
	case 1:
		return named[0], nil
	}
	ids := make([]string, len(named))
	for i, p := range named {
		ids[i] = p.ID
	}
	return client.Project{}, fmt.Errorf("project name %q is ambiguous, use one of: %s", ref, strings.Join(ids, ", "))
}

// findWorkload returns the workload of project whose ID equals ref, or else
// the single one named ref.
func findWorkload(ctx context.Context, c *client.Client, project client.Project, ref string) (client.Workload, error) {
	workloads, err := c.FetchProjectWorkloads(ctx, project)
	if err != nil {
		return client.Workload{}, err
	}
	var named []client.Workload
	for _, w := range workloads.Data {
		if w.ID == ref {
			return w, nil
		}
		if w.Name == ref {
			named = append(named, w)
		}
	}
	switch len(named) {
	case 0:
		return client.Workload{}, fmt.Errorf("workload %q not found in project %s", ref, project.ID)
	case 1:
		return named[0], nil
	}
	ids := make([]string, len(named))
	for i, w := range named {
		ids[i] = w.ID
	}
	return client.Workload{}, fmt.Errorf("workload name %q is ambiguous in project %s, use one of: %s", ref, project.ID, strings.Join(ids, ", "))
}
