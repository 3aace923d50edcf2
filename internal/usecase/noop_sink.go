package useCase

import (
	"context"

	"github.com/swharr/storm-surge/internal/constant"
)

// noopSink is used when event logging is disabled or misconfigured. The
// control plane keeps running without analytics.
type noopSink struct {
}

func (s *noopSink) Type() constant.LoggingProvider {
	return constant.LoggingProviderDisabled
}

func (s *noopSink) LogFlagEvaluation(string, interface{}, map[string]interface{}) {
}

func (s *noopSink) LogWebhookEvent(string, interface{}, int, map[string]interface{}) {
}

func (s *noopSink) LogClusterAction(constant.ScalingAction, string, bool, map[string]interface{}) {
}

func (s *noopSink) LogCustomEvent(string, map[string]interface{}) {
}

func (s *noopSink) FlushEvents() error {
	return nil
}

func (s *noopSink) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
