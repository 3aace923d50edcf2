package useCase

import (
	"context"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
	"github.com/swharr/storm-surge/internal/repository"
	"github.com/swharr/storm-surge/internal/repository/model"
	"gorm.io/gorm"
)

// Scaler drives the Ocean node pool capacity. Mutations for the same cluster
// are serialized through a per-cluster lock so two concurrent webhooks can
// never race on the read-modify-write of the capacity triple.
type Scaler interface {
	Scale(
		ctx context.Context,
		tx *gorm.DB,
		event *UCEntity.FlagChangeEvent,
		intent UCEntity.ScalingIntent,
		clusterID string,
	) *UCEntity.ScalingOutcome
	GetClusterCapacity(ctx context.Context, clusterID string) (*UCEntity.ClusterCapacity, error)
	GetScalingHistory(tx *gorm.DB, clusterID string, limit int) ([]*model.ScalingRecord, error)
}

type scaler struct {
	oceanRepo  repository.OceanCluster
	recordRepo repository.ScalingRecord

	lockMu       sync.Mutex
	clusterLocks map[string]*sync.Mutex
}

func newScaler(
	oceanRepo repository.OceanCluster,
	recordRepo repository.ScalingRecord,
) Scaler {
	return &scaler{
		oceanRepo:    oceanRepo,
		recordRepo:   recordRepo,
		clusterLocks: make(map[string]*sync.Mutex),
	}
}

func (s *scaler) clusterLock(clusterID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.clusterLocks[clusterID]
	if !ok {
		lock = &sync.Mutex{}
		s.clusterLocks[clusterID] = lock
	}
	return lock
}

// Scale fetches the current capacity, computes the clamped new target and
// issues the mutation. Failures are captured in the outcome, never returned:
// a failed scale is reported to the provider in the acknowledgment body, not
// as an HTTP failure.
func (s *scaler) Scale(
	ctx context.Context,
	tx *gorm.DB,
	event *UCEntity.FlagChangeEvent,
	intent UCEntity.ScalingIntent,
	clusterID string,
) *UCEntity.ScalingOutcome {
	lock := s.clusterLock(clusterID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	outcome := &UCEntity.ScalingOutcome{
		ClusterID: clusterID,
		Action:    intent.Action,
		Timestamp: start.UTC(),
	}

	// Always fetched fresh, scaling from a stale baseline is worse than
	// failing outright.
	current, err := s.oceanRepo.GetClusterCapacity(ctx, clusterID)
	if err != nil {
		log.Errorf("failed to get cluster info: %v", err)
		outcome.Error = errorConstant.CapacityFetchFailed
		outcome.DurationMS = time.Since(start).Milliseconds()
		s.persistOutcome(tx, event, outcome)
		return outcome
	}
	outcome.OldCapacity = current

	newCapacity := computeNewCapacity(current, intent)
	outcome.NewCapacity = newCapacity
	log.Infof(
		"scaling cluster %s for %s: target %d -> %d",
		clusterID, intent.Action, current.Target, newCapacity.Target,
	)

	if err := s.oceanRepo.UpdateClusterCapacity(ctx, clusterID, newCapacity); err != nil {
		log.Errorf("failed to scale cluster: %v", err)
		outcome.Error = err.Error()
	} else {
		outcome.Success = true
	}
	outcome.DurationMS = time.Since(start).Milliseconds()
	s.persistOutcome(tx, event, outcome)
	return outcome
}

// computeNewCapacity applies the scale factor to the current target. Shrinks
// round down, grows round up, and the result is clamped into
// [Minimum, Maximum] so the capacity invariant always holds.
func computeNewCapacity(
	current *UCEntity.ClusterCapacity,
	intent UCEntity.ScalingIntent,
) *UCEntity.ClusterCapacity {
	var target int
	switch intent.Action {
	case constant.ScalingActionOptimize:
		target = int(math.Floor(float64(current.Target) * intent.ScaleFactor))
	default:
		target = int(math.Ceil(float64(current.Target) * intent.ScaleFactor))
	}

	if target < current.Minimum {
		target = current.Minimum
	}
	if target > current.Maximum {
		target = current.Maximum
	}

	return &UCEntity.ClusterCapacity{
		Target:  target,
		Minimum: current.Minimum,
		Maximum: current.Maximum,
	}
}

// persistOutcome writes the audit row. Best effort, an audit failure never
// fails the scaling path.
func (s *scaler) persistOutcome(
	tx *gorm.DB,
	event *UCEntity.FlagChangeEvent,
	outcome *UCEntity.ScalingOutcome,
) {
	if tx == nil {
		return
	}

	record := &model.ScalingRecord{
		ClusterID:  outcome.ClusterID,
		Action:     outcome.Action,
		Success:    outcome.Success,
		Error:      outcome.Error,
		DurationMS: outcome.DurationMS,
	}
	if event != nil {
		record.Provider = event.Provider
		record.FlagKey = event.FlagKey
	}
	if outcome.OldCapacity != nil {
		record.OldTarget = outcome.OldCapacity.Target
		record.OldMinimum = outcome.OldCapacity.Minimum
		record.OldMaximum = outcome.OldCapacity.Maximum
	}
	if outcome.NewCapacity != nil {
		record.NewTarget = outcome.NewCapacity.Target
		record.NewMinimum = outcome.NewCapacity.Minimum
		record.NewMaximum = outcome.NewCapacity.Maximum
	}

	if err := s.recordRepo.InsertScalingRecord(tx, record); err != nil {
		log.Errorf("failed to persist scaling record: %v", err)
	}
}

func (s *scaler) GetClusterCapacity(
	ctx context.Context,
	clusterID string,
) (*UCEntity.ClusterCapacity, error) {
	return s.oceanRepo.GetClusterCapacity(ctx, clusterID)
}

func (s *scaler) GetScalingHistory(
	tx *gorm.DB,
	clusterID string,
	limit int,
) ([]*model.ScalingRecord, error) {
	return s.recordRepo.ListScalingRecordByClusterID(tx, clusterID, limit)
}
