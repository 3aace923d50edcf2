package response

import "github.com/swharr/storm-surge/internal/constant"

// Webhook is the acknowledgment body returned to the provider. Scaling
// failures are reported through Success, not through the HTTP status code,
// since the delivery itself was received and processed.
type Webhook struct {
	Status    constant.WebhookStatus `json:"status"`
	Action    string                 `json:"action,omitempty"`
	Success   *bool                  `json:"success,omitempty"`
	Provider  constant.FlagProvider  `json:"provider"`
	FlagKey   string                 `json:"flag_key,omitempty"`
	Kind      string                 `json:"kind,omitempty"`
	Timestamp float64                `json:"timestamp"`
}

type WebhookError struct {
	Error string `json:"error"`
}
