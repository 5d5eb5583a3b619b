package types

import "time"

// ------------------------------
// Hypermedia
// ------------------------------

// Links holds the named resource URLs the server embeds in a representation.
// The values are opaque; callers follow them and never build them.
type Links map[string]string

// Actions holds the state-transition URLs the server currently permits for a
// resource. A missing key means the action is not available right now.
type Actions map[string]string

// Well-known link names.
const (
	LinkSelf      = "self"
	LinkUpdate    = "update"
	LinkRemove    = "remove"
	LinkRevisions = "revisions"
	LinkYAML      = "yaml"
	LinkWorkloads = "workloads"
)

// Well-known workload action names.
const (
	ActionRedeploy = "redeploy"
	ActionPause    = "pause"
	ActionResume   = "resume"
	ActionRollback = "rollback"
)

// Get returns the URL registered under name, or "" if absent.
func (l Links) Get(name string) string { return l[name] }

// Get returns the URL registered under name, or "" if absent.
func (a Actions) Get(name string) string { return a[name] }

// ------------------------------
// Core Domain Entities
// ------------------------------

// Project represents a project
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NamespaceID *string `json:"namespaceId"`
	Links       Links   `json:"links"`
}

// Container represents a single container spec inside a workload
type Container struct {
	Image           string `json:"image"`
	Name            string `json:"name"`
	ImagePullPolicy string `json:"imagePullPolicy,omitempty"`
}

// Workload represents a deployed container workload
type Workload struct {
	ID          string      `json:"id"`
	BaseType    string      `json:"baseType,omitempty"`
	Name        string      `json:"name"`
	NamespaceID string      `json:"namespaceId"`
	ProjectID   string      `json:"projectId"`
	Paused      bool        `json:"paused"`
	Containers  []Container `json:"containers"`
	Created     time.Time   `json:"created"`
	Links       Links       `json:"links"`
	Actions     Actions     `json:"actions"`
}

// DeploymentConfig describes the image a workload container should run.
// It is never sent as-is; ChangeImage derives the request body from it.
type DeploymentConfig struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}
