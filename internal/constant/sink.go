package constant

import "time"

// Event log sink batching. Events accumulate in memory and are flushed to the
// provider bulk endpoint when the batch is full, on the periodic timer, and on
// shutdown.
const (
	SinkMaxBatchSize  = 100
	SinkFlushInterval = 30 * time.Second
	SinkFlushTimeout  = 10 * time.Second
)

const (
	LaunchDarklyEventsURL = "https://events.launchdarkly.com/bulk"
	StatsigEventsURL      = "https://statsigapi.net/v1/log_event"
)

const (
	SinkUserKey     = "storm-surge-middleware"
	SinkUserName    = "Storm Surge Middleware"
	SinkServiceName = "ocean-surge-middleware"
	SinkUserAgent   = "Storm-Surge-Middleware/1.0"
	ServiceVersion  = "1.1.0"
)
