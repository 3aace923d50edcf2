package repository

import (
	"github.com/swharr/storm-surge/internal/repository/model"
	"gorm.io/gorm"
)

type ScalingRecord interface {
	InsertScalingRecord(tx *gorm.DB, data *model.ScalingRecord) error
	ListScalingRecordByClusterID(tx *gorm.DB, clusterID string, limit int) ([]*model.ScalingRecord, error)
}

type scalingRecord struct {
}

func newScalingRecord() ScalingRecord {
	return &scalingRecord{}
}

func (r *scalingRecord) InsertScalingRecord(tx *gorm.DB, data *model.ScalingRecord) error {
	return tx.Create(data).Error
}

func (r *scalingRecord) ListScalingRecordByClusterID(
	tx *gorm.DB,
	clusterID string,
	limit int,
) ([]*model.ScalingRecord, error) {
	var data []*model.ScalingRecord
	tx = tx.Model(&model.ScalingRecord{}).
		Where("cluster_id = ?", clusterID).
		Order("created_at desc").
		Limit(limit).
		Find(&data)
	return data, tx.Error
}
