package UCEntity

import (
	"time"

	"github.com/swharr/storm-surge/internal/constant"
)

// ScalingIntent maps a flag state to a capacity change direction.
type ScalingIntent struct {
	Action      constant.ScalingAction
	ScaleFactor float64
}

// ClusterCapacity mirrors the Ocean node pool capacity triple.
// Invariant: Minimum <= Target <= Maximum.
type ClusterCapacity struct {
	Target  int `json:"target"`
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
}

// ScalingOutcome records a single scaling attempt. It is created once per
// attempt and forwarded unchanged to the event sink, the realtime hub and the
// audit repository.
type ScalingOutcome struct {
	ClusterID   string
	Action      constant.ScalingAction
	OldCapacity *ClusterCapacity
	NewCapacity *ClusterCapacity
	Success     bool
	Error       string
	DurationMS  int64
	Timestamp   time.Time
}

func (o *ScalingOutcome) Details() map[string]interface{} {
	details := map[string]interface{}{
		"action":      string(o.Action),
		"duration_ms": o.DurationMS,
	}
	if o.OldCapacity != nil {
		details["current_capacity"] = o.OldCapacity
	}
	if o.NewCapacity != nil {
		details["new_capacity"] = o.NewCapacity
	}
	if o.Error != "" {
		details["error"] = o.Error
	}
	return details
}
