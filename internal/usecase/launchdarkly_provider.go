package useCase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/entity/request"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
)

type launchDarklyProvider struct {
	webhookSecret string
}

func (p *launchDarklyProvider) Type() constant.FlagProvider {
	return constant.FlagProviderLaunchDarkly
}

func (p *launchDarklyProvider) SignatureHeader() string {
	return constant.LaunchDarklySignatureHeader
}

func (p *launchDarklyProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	return verifyHMACSignature(p.webhookSecret, payload, signature, "")
}

func (p *launchDarklyProvider) ParseWebhookPayload(
	payload []byte,
) (*UCEntity.FlagChangeEvent, string, error) {
	if isEmptyPayload(payload) {
		return nil, "", ErrEmptyPayload
	}

	data := &request.LaunchDarklyWebhook{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	kind := data.Kind
	if kind == "" {
		kind = "unknown"
	}

	if data.Kind != "flag" || data.Data.Key != constant.LaunchDarklyCostOptimizerFlag {
		return nil, kind, nil
	}

	return &UCEntity.FlagChangeEvent{
		FlagKey:    data.Data.Key,
		FlagValue:  data.Data.Value,
		Provider:   constant.FlagProviderLaunchDarkly,
		ReceivedAt: time.Now().UTC(),
	}, kind, nil
}
