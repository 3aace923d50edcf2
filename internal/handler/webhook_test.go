package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
	"github.com/swharr/storm-surge/internal/repository"
	useCase "github.com/swharr/storm-surge/internal/usecase"
)

const (
	testWebhookSecret = "test-webhook-secret"
	testClusterID     = "o-123456"
)

type fakeOceanAPI struct {
	mu        sync.Mutex
	getStatus int
	putStatus int
	putCalls  int
	putBody   []byte
	capacity  map[string]int
}

func newFakeOceanAPI() (*fakeOceanAPI, *httptest.Server) {
	api := &fakeOceanAPI{
		getStatus: http.StatusOK,
		putStatus: http.StatusOK,
		capacity:  map[string]int{"target": 5, "minimum": 1, "maximum": 10},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			if api.getStatus != http.StatusOK {
				w.WriteHeader(api.getStatus)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"response": map[string]interface{}{"capacity": api.capacity},
			})
		case http.MethodPut:
			api.putCalls++
			api.putBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(api.putStatus)
		}
	}))
	return api, server
}

type fakeEventsAPI struct {
	mu       sync.Mutex
	requests [][]byte
}

func newFakeEventsAPI() (*fakeEventsAPI, *httptest.Server) {
	api := &fakeEventsAPI{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.requests = append(api.requests, body)
		api.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	return api, server
}

// events returns every event object delivered to the bulk endpoint so far.
func (a *fakeEventsAPI) events(t *testing.T) []map[string]interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	var all []map[string]interface{}
	for _, body := range a.requests {
		var batch []map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &batch))
		all = append(all, batch...)
	}
	return all
}

type webhookTestEnv struct {
	app      *fiber.App
	ocean    *fakeOceanAPI
	events   *fakeEventsAPI
	useCases *useCase.UseCases
	cleanup  func()
}

func newWebhookTestEnv(t *testing.T) *webhookTestEnv {
	oceanAPI, oceanServer := newFakeOceanAPI()
	eventsAPI, eventsServer := newFakeEventsAPI()

	configData := &config.Config{}
	configData.FeatureFlag.Provider = constant.FlagProviderLaunchDarkly
	configData.FeatureFlag.WebhookSecret = testWebhookSecret
	configData.Logging.Provider = constant.LoggingProviderLaunchDarkly
	configData.Logging.LaunchDarklySDKKey = "test-sdk-key"
	configData.Logging.LaunchDarklyEventsURL = eventsServer.URL
	configData.Ocean.APIBaseURL = oceanServer.URL
	configData.Ocean.APIToken = "test-spot-token"
	configData.Ocean.ClusterID = testClusterID

	// dedup falls back to fail-open with an unreachable redis
	resources := &config.StormSurgeResources{
		ValidatorInst: validator.New(),
		Redis:         redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	}

	repositories := repository.BuildRepositories(resources, configData)
	hub := realtime.NewHub()
	useCases, err := useCase.BuildUseCases(resources, repositories, configData, hub)
	require.NoError(t, err)
	handlers := BuildHandlers(useCases, resources, configData, hub)

	app := fiber.New()
	app.Post("/webhook/:provider", handlers.WebhookHandler.HandleWebhook)
	app.Get("/health", handlers.ClusterHandler.Health)
	app.Get("/api/cluster/status", handlers.ClusterHandler.GetClusterStatus)

	return &webhookTestEnv{
		app:      app,
		ocean:    oceanAPI,
		events:   eventsAPI,
		useCases: useCases,
		cleanup: func() {
			oceanServer.Close()
			eventsServer.Close()
		},
	}
}

func (env *webhookTestEnv) post(t *testing.T, path string, body []byte, signature string) (*http.Response, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(constant.LaunchDarklySignatureHeader, signature)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	data := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(respBody, &data))
	return resp, data
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookScalesDownOnOptimizerEnabled(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"kind":"flag","data":{"key":"enable-cost-optimizer","value":true}}`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "processed", data["status"])
	assert.Equal(t, "cost_optimization_enabled", data["action"])
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "launchdarkly", data["provider"])
	assert.Equal(t, "enable-cost-optimizer", data["flag_key"])

	require.Equal(t, 1, env.ocean.putCalls)
	var put map[string]map[string]map[string]int
	require.NoError(t, json.Unmarshal(env.ocean.putBody, &put))
	assert.Equal(t, 4, put["cluster"]["capacity"]["target"])
}

func TestWebhookScalesUpOnOptimizerDisabled(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"kind":"flag","data":{"key":"enable-cost-optimizer","value":false}}`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cost_optimization_disabled", data["action"])

	var put map[string]map[string]map[string]int
	require.NoError(t, json.Unmarshal(env.ocean.putBody, &put))
	assert.Equal(t, 6, put["cluster"]["capacity"]["target"])
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"kind":"flag","data":{"key":"enable-cost-optimizer","value":true}}`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody("wrong-secret", body))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, data, "error")
	assert.Zero(t, env.ocean.putCalls)
}

func TestWebhookAcknowledgesUnknownFlagWithoutScaling(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"kind":"flag","data":{"key":"other-flag","value":true}}`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "received", data["status"])
	assert.Equal(t, "flag", data["kind"])
	assert.Zero(t, env.ocean.putCalls)
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"kind":`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, data, "error")
}

func TestWebhookRejectsWrongProviderEndpoint(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	body := []byte(`{"event_type":"gate_config_updated","data":{"name":"enable_cost_optimizer","enabled":true}}`)
	resp, _ := env.post(t, "/webhook/statsig", body, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.ocean.putCalls)
}

// A capacity fetch failure is reported in the acknowledgment body, not the
// HTTP status, and the failed attempt still reaches the analytics sink.
func TestWebhookReportsScalingFailureWithOK(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()
	env.ocean.getStatus = http.StatusInternalServerError

	body := []byte(`{"kind":"flag","data":{"key":"enable-cost-optimizer","value":true}}`)
	resp, data := env.post(t, "/webhook/launchdarkly", body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "processed", data["status"])
	assert.Equal(t, false, data["success"])
	assert.Zero(t, env.ocean.putCalls)

	require.NoError(t, env.useCases.EventSink.FlushEvents())

	var clusterAction map[string]interface{}
	for _, event := range env.events.events(t) {
		if event["kind"] == "custom" && event["key"] == "cluster_action" {
			clusterAction = event
		}
	}
	require.NotNil(t, clusterAction, "expected a cluster_action event in the sink")
	eventData := clusterAction["data"].(map[string]interface{})
	assert.Equal(t, false, eventData["success"])
	assert.Equal(t, testClusterID, eventData["cluster_id"])
}

func TestHealthEndpoint(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	data := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &data))
	assert.Equal(t, "healthy", data["status"])
}

func TestClusterStatusEndpoint(t *testing.T) {
	env := newWebhookTestEnv(t)
	defer env.cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/cluster/status", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	data := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &data))
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, testClusterID, data["cluster_id"])

	capacity := data["capacity"].(map[string]interface{})
	assert.Equal(t, float64(5), capacity["target"])
}
