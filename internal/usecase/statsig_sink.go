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

// statsigSink ships events to the Statsig log_event endpoint.
type statsigSink struct {
	serverKey  string
	eventsURL  string
	httpClient *http.Client
	batch      eventBatch
}

func newStatsigSink(serverKey, eventsURL string) EventSink {
	return &statsigSink{
		serverKey:  serverKey,
		eventsURL:  eventsURL,
		httpClient: newSinkHTTPClient(),
	}
}

func (s *statsigSink) Type() constant.LoggingProvider {
	return constant.LoggingProviderStatsig
}

func (s *statsigSink) userContext() map[string]interface{} {
	return map[string]interface{}{
		"userID": constant.SinkUserKey,
		"email":  "middleware@oceansurge.com",
		"custom": map[string]interface{}{
			"service": constant.SinkServiceName,
			"version": constant.ServiceVersion,
		},
	}
}

func (s *statsigSink) LogFlagEvaluation(
	flagKey string,
	flagValue interface{},
	metadata map[string]interface{},
) {
	eventMetadata := map[string]interface{}{
		"gate_name":  flagKey,
		"gate_value": flagValue,
		"source":     "storm_surge_middleware",
	}
	for k, v := range metadata {
		eventMetadata[k] = v
	}
	s.add(map[string]interface{}{
		"eventName": "gate_evaluation",
		"user":      s.userContext(),
		"time":      time.Now().UnixMilli(),
		"metadata":  eventMetadata,
	})
}

func (s *statsigSink) LogWebhookEvent(
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

func (s *statsigSink) LogClusterAction(
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

func (s *statsigSink) LogCustomEvent(eventName string, properties map[string]interface{}) {
	s.add(map[string]interface{}{
		"eventName": eventName,
		"user":      s.userContext(),
		"time":      time.Now().UnixMilli(),
		"metadata":  properties,
	})
}

func (s *statsigSink) add(event interface{}) {
	if s.batch.append(event) {
		asyncFlush(s)
	}
}

func (s *statsigSink) FlushEvents() error {
	events := s.batch.take()
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"events": events,
		"statsigMetadata": map[string]interface{}{
			"sdkType":    "storm-surge-middleware",
			"sdkVersion": constant.ServiceVersion,
		},
	})
	if err != nil {
		s.batch.restore(events)
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.eventsURL, bytes.NewReader(body))
	if err != nil {
		s.batch.restore(events)
		return err
	}
	req.Header.Set("STATSIG-API-KEY", s.serverKey)
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

	log.Infof("sent %d events to Statsig", len(events))
	return nil
}

func (s *statsigSink) Run(ctx context.Context) error {
	return runFlushLoop(ctx, s)
}
