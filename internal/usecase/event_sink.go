package useCase

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
)

// EventSink ships audit and telemetry events to the configured analytics
// provider. All Log operations append to an in-memory bounded batch and
// return immediately; delivery is at-least-once and every sink failure is
// swallowed after logging, nothing here may ever block or fail the scaling
// path.
type EventSink interface {
	Type() constant.LoggingProvider
	LogFlagEvaluation(flagKey string, flagValue interface{}, metadata map[string]interface{})
	LogWebhookEvent(eventType string, payload interface{}, responseStatus int, metadata map[string]interface{})
	LogClusterAction(action constant.ScalingAction, clusterID string, success bool, details map[string]interface{})
	LogCustomEvent(eventName string, properties map[string]interface{})

	// FlushEvents sends the accumulated batch to the provider bulk endpoint.
	// The batch is cleared only on confirmed delivery; on failure it is
	// retained and resent by a later flush.
	FlushEvents() error

	// Run flushes on a fixed interval and once more on shutdown. It returns
	// when ctx is canceled.
	Run(ctx context.Context) error
}

// NewEventSink selects the logging provider. "auto" follows whichever
// provider has credentials configured, starting from the active flag
// provider. A sink without credentials degrades to the no-op sink with a
// warning, never an error: analytics must not keep the control plane down.
func NewEventSink(configData *config.Config) EventSink {
	loggingProvider := configData.Logging.Provider
	if loggingProvider == constant.LoggingProviderAuto {
		loggingProvider = resolveAutoProvider(configData)
	}

	switch loggingProvider {
	case constant.LoggingProviderLaunchDarkly:
		if configData.Logging.LaunchDarklySDKKey == "" {
			log.Warnf(errorConstant.LoggingKeyMissing, loggingProvider)
			return &noopSink{}
		}
		return newLaunchDarklySink(
			configData.Logging.LaunchDarklySDKKey,
			configData.Logging.LaunchDarklyEventsURL,
		)
	case constant.LoggingProviderStatsig:
		if configData.Logging.StatsigServerKey == "" {
			log.Warnf(errorConstant.LoggingKeyMissing, loggingProvider)
			return &noopSink{}
		}
		return newStatsigSink(
			configData.Logging.StatsigServerKey,
			configData.Logging.StatsigEventsURL,
		)
	case constant.LoggingProviderDisabled:
		log.Info("event logging disabled")
		return &noopSink{}
	default:
		log.Warnf("unknown logging provider type: %s", loggingProvider)
		return &noopSink{}
	}
}

func resolveAutoProvider(configData *config.Config) constant.LoggingProvider {
	switch configData.FeatureFlag.Provider {
	case constant.FlagProviderStatsig:
		if configData.Logging.StatsigServerKey != "" {
			return constant.LoggingProviderStatsig
		}
		if configData.Logging.LaunchDarklySDKKey != "" {
			return constant.LoggingProviderLaunchDarkly
		}
	default:
		if configData.Logging.LaunchDarklySDKKey != "" {
			return constant.LoggingProviderLaunchDarkly
		}
		if configData.Logging.StatsigServerKey != "" {
			return constant.LoggingProviderStatsig
		}
	}
	return constant.LoggingProviderDisabled
}

// eventBatch is the pending event queue shared by the provider sinks. Appends
// and drains run concurrently, everything goes through the mutex.
type eventBatch struct {
	mu     sync.Mutex
	events []interface{}
}

// append queues one event and reports whether the batch hit the flush
// threshold.
func (b *eventBatch) append(event interface{}) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return len(b.events) >= constant.SinkMaxBatchSize
}

// take hands the pending events to a flush and clears the queue. Ownership
// transfers to the caller; restore puts them back if delivery fails.
func (b *eventBatch) take() []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

func (b *eventBatch) restore(events []interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(events, b.events...)
}

func newSinkHTTPClient() *http.Client {
	return &http.Client{
		Timeout: constant.SinkFlushTimeout,
	}
}

// runFlushLoop drives the periodic and shutdown flushes for a batching sink.
// Without the timer a low-traffic deployment could hold events in memory
// indefinitely waiting for the batch to fill.
func runFlushLoop(ctx context.Context, sink EventSink) error {
	ticker := time.NewTicker(constant.SinkFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := sink.FlushEvents(); err != nil {
				log.Errorf("final event flush failed: %v", err)
			}
			return nil
		case <-ticker.C:
			if err := sink.FlushEvents(); err != nil {
				log.Errorf("periodic event flush failed: %v", err)
			}
		}
	}
}

// asyncFlush runs a threshold-triggered flush off the caller's goroutine so
// the webhook path never waits on the events endpoint.
func asyncFlush(sink EventSink) {
	go func() {
		if err := sink.FlushEvents(); err != nil {
			log.Errorf("event flush failed: %v", err)
		}
	}()
}

func payloadSize(payload interface{}) int {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0
	}
	return len(data)
}

func webhookEventProperties(
	eventType string,
	payload interface{},
	responseStatus int,
	metadata map[string]interface{},
) map[string]interface{} {
	properties := map[string]interface{}{
		"event_type":      eventType,
		"response_status": responseStatus,
		"payload_size":    payloadSize(payload),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range metadata {
		properties[k] = v
	}
	return properties
}

func clusterActionProperties(
	action constant.ScalingAction,
	clusterID string,
	success bool,
	details map[string]interface{},
) map[string]interface{} {
	properties := map[string]interface{}{
		"action":     string(action),
		"cluster_id": clusterID,
		"success":    success,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range details {
		properties[k] = v
	}
	return properties
}
