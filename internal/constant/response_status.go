package constant

type ResponseStatus string

const (
	Fail    ResponseStatus = "fail"
	Success ResponseStatus = "success"
	Error   ResponseStatus = "error"
)

// WebhookStatus reported in the webhook acknowledgment body. A delivery is
// "processed" when it drove a scaling attempt, "received" when acknowledged
// without action, "duplicate" when dedup short-circuited a replay.
type WebhookStatus string

const (
	WebhookProcessed WebhookStatus = "processed"
	WebhookReceived  WebhookStatus = "received"
	WebhookDuplicate WebhookStatus = "duplicate"
)
