package useCase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
	"github.com/swharr/storm-surge/internal/repository"
	"gorm.io/gorm"
)

// EventRouter is the single point between the provider adapters and the
// scaling path. It deduplicates replayed deliveries and drives the decision
// engine, the scaler, the event sink and the realtime fan-out.
type EventRouter interface {
	Route(ctx context.Context, event *UCEntity.FlagChangeEvent, rawBody []byte) *UCEntity.WebhookResult
}

type eventRouter struct {
	db        *gorm.DB
	dedupRepo repository.WebhookDedup
	scaler    Scaler
	sink      EventSink
	hub       *realtime.Hub
	clusterID string
}

func newEventRouter(
	db *gorm.DB,
	dedupRepo repository.WebhookDedup,
	scaler Scaler,
	sink EventSink,
	hub *realtime.Hub,
	clusterID string,
) EventRouter {
	return &eventRouter{
		db:        db,
		dedupRepo: dedupRepo,
		scaler:    scaler,
		sink:      sink,
		hub:       hub,
		clusterID: clusterID,
	}
}

func (r *eventRouter) Route(
	ctx context.Context,
	event *UCEntity.FlagChangeEvent,
	rawBody []byte,
) *UCEntity.WebhookResult {
	if !r.markFirstDelivery(ctx, event, rawBody) {
		log.Infof("duplicate webhook delivery for flag %s, skipping", event.FlagKey)
		return &UCEntity.WebhookResult{
			Status:  constant.WebhookDuplicate,
			FlagKey: event.FlagKey,
		}
	}

	r.sink.LogFlagEvaluation(event.FlagKey, event.FlagValue, map[string]interface{}{
		"source":   "webhook",
		"provider": string(event.Provider),
	})
	r.hub.Broadcast("flag_changed", map[string]interface{}{
		"flag_key":  event.FlagKey,
		"enabled":   event.FlagValue,
		"timestamp": float64(event.ReceivedAt.UnixMilli()) / 1000,
		"provider":  string(event.Provider),
	})

	intent := DecideScalingAction(event.FlagValue)

	var tx *gorm.DB
	if r.db != nil {
		tx = r.db.WithContext(ctx)
	}
	outcome := r.scaler.Scale(ctx, tx, event, intent, r.clusterID)

	r.sink.LogClusterAction(outcome.Action, outcome.ClusterID, outcome.Success, outcome.Details())
	r.hub.Broadcast("cluster_scaled", map[string]interface{}{
		"cluster_id": outcome.ClusterID,
		"event_type": string(outcome.Action),
		"success":    outcome.Success,
		"timestamp":  float64(outcome.Timestamp.UnixMilli()) / 1000,
		"details":    outcome.Details(),
	})

	action := constant.ActionCostOptimizationDisabled
	if event.FlagValue {
		action = constant.ActionCostOptimizationEnabled
	}
	log.Infof("processed flag change: %s, success: %t", action, outcome.Success)

	success := outcome.Success
	return &UCEntity.WebhookResult{
		Status:  constant.WebhookProcessed,
		Action:  action,
		Success: &success,
		FlagKey: event.FlagKey,
		Outcome: outcome,
	}
}

// markFirstDelivery reports whether this payload has been seen before. Dedup
// is best effort: when redis is unavailable the delivery is treated as fresh,
// scaling availability wins over replay protection.
func (r *eventRouter) markFirstDelivery(
	ctx context.Context,
	event *UCEntity.FlagChangeEvent,
	rawBody []byte,
) bool {
	digest := sha256.Sum256(append([]byte(fmt.Sprintf("%s:", event.Provider)), rawBody...))
	first, err := r.dedupRepo.MarkDelivery(ctx, hex.EncodeToString(digest[:]))
	if err != nil {
		log.Warnf("webhook dedup unavailable: %v", err)
		return true
	}
	return first
}
