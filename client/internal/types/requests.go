package types

// ------------------------------
// Request Types
// ------------------------------

// PullPolicyAlways is the pull policy set on containers the client creates.
const PullPolicyAlways = "Always"

// CreateWorkloadRequest is posted to a workload's update link when the
// workload could no longer be found.
type CreateWorkloadRequest struct {
	Containers  []Container `json:"containers"`
	Name        string      `json:"name"`
	NamespaceID string      `json:"namespaceId"`
}

// NewCreateWorkloadRequest builds the single-container body for cfg inside
// namespaceID.
func NewCreateWorkloadRequest(cfg DeploymentConfig, namespaceID string) CreateWorkloadRequest {
	return CreateWorkloadRequest{
		Containers: []Container{{
			Image:           cfg.Image,
			Name:            cfg.Name,
			ImagePullPolicy: PullPolicyAlways,
		}},
		Name:        cfg.Name,
		NamespaceID: namespaceID,
	}
}
