package request

// LaunchDarklyWebhook is the relevant subset of a LaunchDarkly audit-log
// webhook. Deliveries with a kind other than "flag" are acknowledged without
// action.
type LaunchDarklyWebhook struct {
	Kind string                  `json:"kind"`
	Data LaunchDarklyWebhookData `json:"data"`
}

type LaunchDarklyWebhookData struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// StatsigWebhook is the relevant subset of a Statsig console webhook.
type StatsigWebhook struct {
	EventType string             `json:"event_type"`
	Data      StatsigWebhookData `json:"data"`
}

type StatsigWebhookData struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
