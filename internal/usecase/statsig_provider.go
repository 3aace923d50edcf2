package useCase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/entity/request"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
)

type statsigProvider struct {
	webhookSecret string
}

func (p *statsigProvider) Type() constant.FlagProvider {
	return constant.FlagProviderStatsig
}

func (p *statsigProvider) SignatureHeader() string {
	return constant.StatsigSignatureHeader
}

func (p *statsigProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	return verifyHMACSignature(
		p.webhookSecret,
		payload,
		signature,
		constant.StatsigSignaturePrefix,
	)
}

func (p *statsigProvider) ParseWebhookPayload(
	payload []byte,
) (*UCEntity.FlagChangeEvent, string, error) {
	if isEmptyPayload(payload) {
		return nil, "", ErrEmptyPayload
	}

	data := &request.StatsigWebhook{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	kind := data.EventType
	if kind == "" {
		kind = "unknown"
	}

	if data.EventType != "gate_config_updated" || data.Data.Name != constant.StatsigCostOptimizerGate {
		return nil, kind, nil
	}

	return &UCEntity.FlagChangeEvent{
		FlagKey:    data.Data.Name,
		FlagValue:  data.Data.Enabled,
		Provider:   constant.FlagProviderStatsig,
		ReceivedAt: time.Now().UTC(),
	}, kind, nil
}
