package useCase

import (
	"github.com/swharr/storm-surge/internal/constant"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
)

// DecideScalingAction maps the cost optimizer flag state to a scaling intent.
// Enabling the flag shrinks the pool, disabling it grows the pool back for
// performance. Pure, no I/O.
func DecideScalingAction(flagValue bool) UCEntity.ScalingIntent {
	if flagValue {
		return UCEntity.ScalingIntent{
			Action:      constant.ScalingActionOptimize,
			ScaleFactor: constant.OptimizeScaleFactor,
		}
	}
	return UCEntity.ScalingIntent{
		Action:      constant.ScalingActionPerformance,
		ScaleFactor: constant.PerformanceScaleFactor,
	}
}
