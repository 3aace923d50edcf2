package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
	"github.com/swharr/storm-surge/internal/entity/response"
	useCase "github.com/swharr/storm-surge/internal/usecase"
)

type Webhook interface {
	HandleWebhook(c *fiber.Ctx) error
}

type webhook struct {
	baseHandler
	flagProvider useCase.FlagProvider
	eventRouter  useCase.EventRouter
	sink         useCase.EventSink
}

func newWebhookHandler(
	flagProvider useCase.FlagProvider,
	eventRouter useCase.EventRouter,
	sink useCase.EventSink,
) Webhook {
	return &webhook{
		flagProvider: flagProvider,
		eventRouter:  eventRouter,
		sink:         sink,
	}
}

// HandleWebhook walks a delivery through verification, parsing and routing.
// Only authentication and parse failures map to error status codes; a failed
// scaling action still acknowledges with 200 since retrying an already
// delivered webhook is the provider's call, not ours.
func (h *webhook) HandleWebhook(c *fiber.Ctx) (retErr error) {
	start := time.Now()
	providerName := c.Params("provider")
	metadata := map[string]interface{}{
		"provider": providerName,
		"endpoint": c.Path(),
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("error processing %s webhook: %v", providerName, r)
			metadata["error"] = fmt.Sprintf("%v", r)
			metadata["duration_ms"] = time.Since(start).Milliseconds()
			h.sink.LogWebhookEvent("webhook_error", nil, http.StatusInternalServerError, metadata)
			retErr = c.Status(http.StatusInternalServerError).JSON(
				&response.WebhookError{Error: errorConstant.InternalServerError},
			)
		}
	}()

	if constant.FlagProvider(providerName) != h.flagProvider.Type() {
		return h.rejectWebhook(
			c, http.StatusBadRequest,
			fmt.Sprintf(errorConstant.WrongProviderEndpoint, h.flagProvider.Type()),
			"wrong provider endpoint", start, metadata,
		)
	}

	body := c.Body()
	signature := c.Get(h.flagProvider.SignatureHeader())

	if !h.flagProvider.VerifyWebhookSignature(body, signature) {
		log.Error("invalid webhook signature")
		return h.rejectWebhook(
			c, http.StatusUnauthorized,
			errorConstant.InvalidSignature,
			errorConstant.InvalidSignature, start, metadata,
		)
	}

	event, kind, err := h.flagProvider.ParseWebhookPayload(body)
	if err != nil {
		return h.rejectWebhook(
			c, http.StatusBadRequest,
			errorConstant.InvalidJSONPayload,
			err.Error(), start, metadata,
		)
	}

	log.Infof("received %s webhook: %s", providerName, string(body))

	if event == nil {
		// Valid delivery for an event this system does not act on.
		metadata["status"] = "received_no_action"
		metadata["duration_ms"] = time.Since(start).Milliseconds()
		h.sink.LogWebhookEvent("webhook_processed", rawPayload(body), http.StatusOK, metadata)
		return c.JSON(&response.Webhook{
			Status:    constant.WebhookReceived,
			Provider:  h.flagProvider.Type(),
			Kind:      kind,
			Timestamp: unixSeconds(time.Now()),
		})
	}

	result := h.eventRouter.Route(c.Context(), event, body)

	metadata["flag_key"] = result.FlagKey
	metadata["flag_value"] = event.FlagValue
	metadata["status"] = string(result.Status)
	if result.Action != "" {
		metadata["action"] = result.Action
	}
	if result.Success != nil {
		metadata["success"] = *result.Success
	}
	metadata["duration_ms"] = time.Since(start).Milliseconds()
	h.sink.LogWebhookEvent("webhook_processed", rawPayload(body), http.StatusOK, metadata)

	return c.JSON(&response.Webhook{
		Status:    result.Status,
		Action:    result.Action,
		Success:   result.Success,
		Provider:  h.flagProvider.Type(),
		FlagKey:   result.FlagKey,
		Timestamp: unixSeconds(time.Now()),
	})
}

func (h *webhook) rejectWebhook(
	c *fiber.Ctx,
	status int,
	message string,
	sinkError string,
	start time.Time,
	metadata map[string]interface{},
) error {
	metadata["error"] = sinkError
	metadata["duration_ms"] = time.Since(start).Milliseconds()
	h.sink.LogWebhookEvent("webhook_error", nil, status, metadata)
	return c.Status(status).JSON(&response.WebhookError{Error: message})
}

func rawPayload(body []byte) map[string]interface{} {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return map[string]interface{}{}
	}
	return payload
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}
