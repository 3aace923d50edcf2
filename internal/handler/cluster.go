package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/entity/response"
	useCase "github.com/swharr/storm-surge/internal/usecase"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type Cluster interface {
	Health(c *fiber.Ctx) error
	GetClusterStatus(c *fiber.Ctx) error
	GetScalingHistory(c *fiber.Ctx) error
}

type cluster struct {
	baseHandler
	db        *gorm.DB
	scalerUC  useCase.Scaler
	clusterID string
}

func newClusterHandler(db *gorm.DB, scalerUC useCase.Scaler, clusterID string) Cluster {
	return &cluster{
		db:        db,
		scalerUC:  scalerUC,
		clusterID: clusterID,
	}
}

func (h *cluster) Health(c *fiber.Ctx) error {
	return c.JSON(&response.Health{
		Status:    "healthy",
		Timestamp: unixSeconds(time.Now()),
		Version:   constant.ServiceVersion,
	})
}

func (h *cluster) GetClusterStatus(c *fiber.Ctx) error {
	status := &response.ClusterStatus{
		ClusterID: h.clusterID,
		Timestamp: unixSeconds(time.Now()),
	}

	capacity, err := h.scalerUC.GetClusterCapacity(c.Context(), h.clusterID)
	if err != nil {
		log.Errorf("error getting cluster status: %v", err)
		status.Status = "unavailable"
		return c.JSON(status)
	}

	status.Status = "active"
	status.Capacity = &response.ClusterCapacity{
		Target:  capacity.Target,
		Minimum: capacity.Minimum,
		Maximum: capacity.Maximum,
	}
	return c.JSON(status)
}

func (h *cluster) GetScalingHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > 500 {
		limit = defaultHistoryLimit
	}

	records, err := h.scalerUC.GetScalingHistory(
		h.db.WithContext(c.Context()),
		h.clusterID,
		limit,
	)
	if err != nil {
		return h.errorResponse(c, err.Error())
	}
	return h.successResponse(c, records)
}
