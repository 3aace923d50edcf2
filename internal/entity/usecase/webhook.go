package UCEntity

import "github.com/swharr/storm-surge/internal/constant"

// WebhookResult is what the router hands back to the webhook endpoint for
// the acknowledgment body.
type WebhookResult struct {
	Status  constant.WebhookStatus
	Action  string
	Success *bool
	FlagKey string
	Outcome *ScalingOutcome
}
