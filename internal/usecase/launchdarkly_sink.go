package useCase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
)

// launchDarklySink ships events to the LaunchDarkly bulk events endpoint.
type launchDarklySink struct {
	sdkKey     string
	eventsURL  string
	httpClient *http.Client
	batch      eventBatch
}

func newLaunchDarklySink(sdkKey, eventsURL string) EventSink {
	return &launchDarklySink{
		sdkKey:     sdkKey,
		eventsURL:  eventsURL,
		httpClient: newSinkHTTPClient(),
	}
}

func (s *launchDarklySink) Type() constant.LoggingProvider {
	return constant.LoggingProviderLaunchDarkly
}

func (s *launchDarklySink) userContext(extra map[string]interface{}) map[string]interface{} {
	custom := map[string]interface{}{
		"service": constant.SinkServiceName,
		"version": constant.ServiceVersion,
	}
	for k, v := range extra {
		custom[k] = v
	}
	return map[string]interface{}{
		"key":    constant.SinkUserKey,
		"kind":   "user",
		"name":   constant.SinkUserName,
		"custom": custom,
	}
}

func (s *launchDarklySink) LogFlagEvaluation(
	flagKey string,
	flagValue interface{},
	metadata map[string]interface{},
) {
	event := map[string]interface{}{
		"kind":         "feature",
		"creationDate": time.Now().UnixMilli(),
		"key":          flagKey,
		"value":        flagValue,
		"default":      false,
		"user":         s.userContext(nil),
		"version":      1,
	}
	if len(metadata) > 0 {
		event["custom"] = metadata
	}
	s.add(event)
}

func (s *launchDarklySink) LogWebhookEvent(
	eventType string,
	payload interface{},
	responseStatus int,
	metadata map[string]interface{},
) {
	s.LogCustomEvent(
		"webhook_received",
		webhookEventProperties(eventType, payload, responseStatus, metadata),
	)
}

func (s *launchDarklySink) LogClusterAction(
	action constant.ScalingAction,
	clusterID string,
	success bool,
	details map[string]interface{},
) {
	s.LogCustomEvent(
		"cluster_action",
		clusterActionProperties(action, clusterID, success, details),
	)
}

func (s *launchDarklySink) LogCustomEvent(eventName string, properties map[string]interface{}) {
	event := map[string]interface{}{
		"kind":         "custom",
		"creationDate": time.Now().UnixMilli(),
		"key":          eventName,
		"user":         s.userContext(nil),
		"data":         properties,
	}
	s.add(event)
}

func (s *launchDarklySink) add(event interface{}) {
	if s.batch.append(event) {
		asyncFlush(s)
	}
}

func (s *launchDarklySink) FlushEvents() error {
	events := s.batch.take()
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(events)
	if err != nil {
		s.batch.restore(events)
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.eventsURL, bytes.NewReader(body))
	if err != nil {
		s.batch.restore(events)
		return err
	}
	req.Header.Set("Authorization", s.sdkKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constant.SinkUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.batch.restore(events)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.batch.restore(events)
		return fmt.Errorf(errorConstant.EventsFlushRejected, resp.StatusCode)
	}

	log.Infof("sent %d events to LaunchDarkly", len(events))
	return nil
}

func (s *launchDarklySink) Run(ctx context.Context) error {
	return runFlushLoop(ctx, s)
}
