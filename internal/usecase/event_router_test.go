package useCase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swharr/storm-surge/internal/constant"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
)

type fakeWebhookDedup struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (f *fakeWebhookDedup) MarkDelivery(ctx context.Context, digest string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[digest] {
		return false, nil
	}
	f.seen[digest] = true
	return true, nil
}

func newTestRouter(ocean *fakeOceanCluster, dedup *fakeWebhookDedup) EventRouter {
	return newEventRouter(
		nil,
		dedup,
		newScaler(ocean, nil),
		&noopSink{},
		realtime.NewHub(),
		"o-123456",
	)
}

func optimizerEvent(value bool) *UCEntity.FlagChangeEvent {
	return &UCEntity.FlagChangeEvent{
		FlagKey:    constant.LaunchDarklyCostOptimizerFlag,
		FlagValue:  value,
		Provider:   constant.FlagProviderLaunchDarkly,
		ReceivedAt: time.Now().UTC(),
	}
}

func TestRouteDrivesScaling(t *testing.T) {
	ocean := &fakeOceanCluster{
		capacity: UCEntity.ClusterCapacity{Target: 5, Minimum: 1, Maximum: 10},
	}
	router := newTestRouter(ocean, &fakeWebhookDedup{})

	result := router.Route(context.Background(), optimizerEvent(true), []byte(`payload-a`))

	assert.Equal(t, constant.WebhookProcessed, result.Status)
	assert.Equal(t, constant.ActionCostOptimizationEnabled, result.Action)
	require.NotNil(t, result.Success)
	assert.True(t, *result.Success)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, 4, result.Outcome.NewCapacity.Target)
}

// Replaying the identical delivery is detected and short-circuited before the
// capacity API is touched.
func TestRouteDeduplicatesReplayedDelivery(t *testing.T) {
	ocean := &fakeOceanCluster{
		capacity: UCEntity.ClusterCapacity{Target: 5, Minimum: 1, Maximum: 10},
	}
	router := newTestRouter(ocean, &fakeWebhookDedup{})
	body := []byte(`{"kind":"flag","data":{"key":"enable-cost-optimizer","value":true}}`)

	first := router.Route(context.Background(), optimizerEvent(true), body)
	assert.Equal(t, constant.WebhookProcessed, first.Status)
	assert.Equal(t, 1, ocean.updateCalls)

	second := router.Route(context.Background(), optimizerEvent(true), body)
	assert.Equal(t, constant.WebhookDuplicate, second.Status)
	assert.Nil(t, second.Outcome)
	assert.Equal(t, 1, ocean.updateCalls)

	// a different body is a fresh delivery
	third := router.Route(context.Background(), optimizerEvent(false), []byte(`other-body`))
	assert.Equal(t, constant.WebhookProcessed, third.Status)
	assert.Equal(t, 2, ocean.updateCalls)
}

// Dedup is best effort: when the store is down the delivery proceeds.
func TestRouteFailsOpenWhenDedupUnavailable(t *testing.T) {
	ocean := &fakeOceanCluster{
		capacity: UCEntity.ClusterCapacity{Target: 5, Minimum: 1, Maximum: 10},
	}
	router := newTestRouter(ocean, &fakeWebhookDedup{err: errors.New("redis down")})

	result := router.Route(context.Background(), optimizerEvent(true), []byte(`payload`))
	assert.Equal(t, constant.WebhookProcessed, result.Status)
	assert.Equal(t, 1, ocean.updateCalls)
}
