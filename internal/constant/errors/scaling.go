package errorConstant

const (
	CapacityFetchFailed    = "failed to fetch cluster capacity"
	CapacityUpdateRejected = "capacity update rejected with status %d"
	EventsFlushRejected    = "events endpoint responded with status %d"
	LoggingKeyMissing      = "no credentials configured for logging provider %s"
)
