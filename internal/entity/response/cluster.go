package response

type Health struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
	Version   string  `json:"version"`
}

type ClusterStatus struct {
	ClusterID string           `json:"cluster_id"`
	Status    string           `json:"status"`
	Capacity  *ClusterCapacity `json:"capacity,omitempty"`
	Timestamp float64          `json:"timestamp"`
}

type ClusterCapacity struct {
	Target  int `json:"target"`
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
}
