package constant

import "time"

type ScalingAction string

const (
	ScalingActionOptimize    ScalingAction = "optimize"
	ScalingActionPerformance ScalingAction = "performance"
)

// Scale factors applied to the current node pool target. The computed
// target is always clamped to the pool minimum and maximum.
const (
	OptimizeScaleFactor    = 0.8
	PerformanceScaleFactor = 1.2
)

const (
	ActionCostOptimizationEnabled  = "cost_optimization_enabled"
	ActionCostOptimizationDisabled = "cost_optimization_disabled"
)

const (
	OceanAPITimeout    = 10 * time.Second
	OceanRetryInterval = 500 * time.Millisecond
	OceanMaxRetries    = 1
)

const WebhookDedupTTL = 10 * time.Minute
