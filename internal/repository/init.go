package repository

import (
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/repository/model"
	"gorm.io/gorm"
)

type Repositories struct {
	OceanCluster  OceanCluster
	WebhookDedup  WebhookDedup
	ScalingRecord ScalingRecord
}

func Migrate(db *gorm.DB) error {
	tableList := []interface{}{
		&model.ScalingRecord{},
	}

	err := db.AutoMigrate(
		tableList...,
	)

	if err != nil {
		return err
	}

	for _, table := range tableList {
		modelObj := table.(model.Model)
		err = modelObj.AdditionalMigration(db)
		if err != nil {
			return err
		}
	}

	return nil
}

func BuildRepositories(
	resources *config.StormSurgeResources,
	configData *config.Config,
) *Repositories {
	return &Repositories{
		OceanCluster: newOceanCluster(
			configData.Ocean.APIBaseURL,
			configData.Ocean.APIToken,
		),
		WebhookDedup:  newWebhookDedup(resources.Redis),
		ScalingRecord: newScalingRecord(),
	}
}
