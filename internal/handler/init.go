package handler

import (
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
	useCase "github.com/swharr/storm-surge/internal/usecase"
)

type Handlers struct {
	WebhookHandler  Webhook
	ClusterHandler  Cluster
	RealtimeHandler Realtime
}

func BuildHandlers(
	useCases *useCase.UseCases,
	resources *config.StormSurgeResources,
	configData *config.Config,
	hub *realtime.Hub,
) *Handlers {
	return &Handlers{
		WebhookHandler: newWebhookHandler(
			useCases.FlagProvider,
			useCases.EventRouter,
			useCases.EventSink,
		),
		ClusterHandler: newClusterHandler(
			resources.DB,
			useCases.Scaler,
			configData.Ocean.ClusterID,
		),
		RealtimeHandler: newRealtimeHandler(hub),
	}
}
