package useCase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swharr/storm-surge/internal/constant"
)

func TestDecideScalingAction(t *testing.T) {
	tests := []struct {
		name           string
		flagValue      bool
		expectedAction constant.ScalingAction
		expectedFactor float64
	}{
		{
			name:           "flag enabled shrinks the pool",
			flagValue:      true,
			expectedAction: constant.ScalingActionOptimize,
			expectedFactor: 0.8,
		},
		{
			name:           "flag disabled grows the pool",
			flagValue:      false,
			expectedAction: constant.ScalingActionPerformance,
			expectedFactor: 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := DecideScalingAction(tt.flagValue)
			assert.Equal(t, tt.expectedAction, intent.Action)
			assert.Equal(t, tt.expectedFactor, intent.ScaleFactor)
		})
	}
}
