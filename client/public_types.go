package client

import "github.com/mycelian/rancher-client/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Project          = types.Project
	Workload         = types.Workload
	Container        = types.Container
	Links            = types.Links
	Actions          = types.Actions
	DeploymentConfig = types.DeploymentConfig

	// Responses
	ProjectCollection  = types.ProjectCollection
	WorkloadCollection = types.WorkloadCollection
)

// Hypermedia keys
const (
	LinkSelf      = types.LinkSelf
	LinkUpdate    = types.LinkUpdate
	LinkRemove    = types.LinkRemove
	LinkRevisions = types.LinkRevisions
	LinkYAML      = types.LinkYAML
	LinkWorkloads = types.LinkWorkloads

	ActionRedeploy = types.ActionRedeploy
	ActionPause    = types.ActionPause
	ActionResume   = types.ActionResume
	ActionRollback = types.ActionRollback
)
