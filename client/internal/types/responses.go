package types

// ------------------------------
// Response Types
// ------------------------------

// ProjectCollection mirrors the GET /projects response shape
type ProjectCollection struct {
	Data []Project `json:"data"`
}

// WorkloadCollection mirrors the response of a project's workloads link
type WorkloadCollection struct {
	Data []Workload `json:"data"`
}
