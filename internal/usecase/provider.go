package useCase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
)

var (
	ErrMalformedPayload = errors.New(errorConstant.InvalidJSONPayload)
	ErrEmptyPayload     = errors.New(errorConstant.EmptyJSONPayload)
)

// FlagProvider normalizes provider specific webhook deliveries into canonical
// flag change events. The concrete provider is selected once at startup from
// configuration.
type FlagProvider interface {
	Type() constant.FlagProvider
	SignatureHeader() string

	// VerifyWebhookSignature authenticates the raw body before any parsing
	// happens. With no secret configured verification is skipped entirely,
	// which is only acceptable for local development.
	VerifyWebhookSignature(payload []byte, signature string) bool

	// ParseWebhookPayload returns the canonical event, or nil when the
	// delivery is valid but not actionable (unknown kind or a flag this
	// system does not act on). The second return is the payload kind used in
	// the acknowledgment. Undecodable payloads are a hard error.
	ParseWebhookPayload(payload []byte) (*UCEntity.FlagChangeEvent, string, error)
}

func NewFlagProvider(
	providerType constant.FlagProvider,
	webhookSecret string,
) (FlagProvider, error) {
	switch providerType {
	case constant.FlagProviderLaunchDarkly:
		return &launchDarklyProvider{webhookSecret: webhookSecret}, nil
	case constant.FlagProviderStatsig:
		return &statsigProvider{webhookSecret: webhookSecret}, nil
	default:
		return nil, fmt.Errorf(errorConstant.ProviderNotSupported, providerType)
	}
}

// verifyHMACSignature computes HMAC-SHA256 over the raw body and compares it
// against the signature header in constant time. signaturePrefix covers
// providers that prefix the hex digest (Statsig sends "sha256=<hex>").
func verifyHMACSignature(secret string, payload []byte, signature, signaturePrefix string) bool {
	if secret == "" {
		log.Warn("no webhook secret configured, skipping signature verification")
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

func isEmptyPayload(payload []byte) bool {
	for _, b := range payload {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return false
		}
	}
	return true
}
