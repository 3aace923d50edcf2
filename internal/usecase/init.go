package useCase

import (
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
	"github.com/swharr/storm-surge/internal/repository"
)

type UseCases struct {
	FlagProvider FlagProvider
	EventSink    EventSink
	Scaler       Scaler
	EventRouter  EventRouter
}

func BuildUseCases(
	resources *config.StormSurgeResources,
	repositories *repository.Repositories,
	configData *config.Config,
	hub *realtime.Hub,
) (*UseCases, error) {
	flagProvider, err := NewFlagProvider(
		configData.FeatureFlag.Provider,
		configData.FeatureFlag.WebhookSecret,
	)
	if err != nil {
		return nil, err
	}

	sink := NewEventSink(configData)
	scaler := newScaler(repositories.OceanCluster, repositories.ScalingRecord)

	return &UseCases{
		FlagProvider: flagProvider,
		EventSink:    sink,
		Scaler:       scaler,
		EventRouter: newEventRouter(
			resources.DB,
			repositories.WebhookDedup,
			scaler,
			sink,
			hub,
			configData.Ocean.ClusterID,
		),
	}, nil
}
