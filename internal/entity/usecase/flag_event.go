package UCEntity

import (
	"time"

	"github.com/swharr/storm-surge/internal/constant"
)

// FlagChangeEvent is the canonical form of a provider webhook delivery,
// constructed once by a provider adapter and immutable afterwards.
type FlagChangeEvent struct {
	FlagKey    string
	FlagValue  bool
	Provider   constant.FlagProvider
	ReceivedAt time.Time
}
