package model

import (
	"github.com/swharr/storm-surge/internal/constant"
)

// ScalingRecord is the audit row persisted for every scaling attempt,
// successful or not. Long term analytics live in the external event sink,
// this table only carries the audit trail.
type ScalingRecord struct {
	BaseModel
	ClusterID  string                 `json:"cluster_id"`
	Provider   constant.FlagProvider  `json:"provider"`
	FlagKey    string                 `json:"flag_key"`
	Action     constant.ScalingAction `json:"action"`
	OldTarget  int                    `json:"old_target"`
	OldMinimum int                    `json:"old_minimum"`
	OldMaximum int                    `json:"old_maximum"`
	NewTarget  int                    `json:"new_target"`
	NewMinimum int                    `json:"new_minimum"`
	NewMaximum int                    `json:"new_maximum"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
}

func (s *ScalingRecord) TableName() string {
	return "scaling_records"
}
