package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/swharr/storm-surge/internal/constant"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server      serverConfig      `yaml:"server"`
	Database    databaseConfig    `yaml:"database"`
	FeatureFlag featureFlagConfig `yaml:"feature-flag"`
	Logging     loggingConfig     `yaml:"logging"`
	Ocean       oceanConfig       `yaml:"ocean"`
}

type serverConfig struct {
	Port         string   `yaml:"port" validate:"required"`
	AllowOrigins []string `yaml:"allow-origins"`
}

type databaseConfig struct {
	Postgres postgresConfig `yaml:"postgres"`
	Redis    redisConfig    `yaml:"redis"`
}

type redisConfig struct {
	Password string `yaml:"password"`
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port" validate:"required"`
}

type postgresConfig struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port" validate:"required"`
	DBName   string `yaml:"dbname" validate:"required"`
}

type featureFlagConfig struct {
	Provider      constant.FlagProvider `yaml:"provider" validate:"oneof=launchdarkly statsig"`
	WebhookSecret string                `yaml:"webhook-secret"`
}

type loggingConfig struct {
	Provider           constant.LoggingProvider `yaml:"provider" validate:"oneof=launchdarkly statsig auto disabled"`
	LaunchDarklySDKKey string                   `yaml:"launchdarkly-sdk-key"`
	StatsigServerKey   string                   `yaml:"statsig-server-key"`

	// Overridable for testing, default to the public endpoints.
	LaunchDarklyEventsURL string `yaml:"launchdarkly-events-url"`
	StatsigEventsURL      string `yaml:"statsig-events-url"`
}

type oceanConfig struct {
	APIBaseURL string `yaml:"api-base-url" validate:"required,url"`
	APIToken   string `yaml:"api-token"`
	ClusterID  string `yaml:"cluster-id" validate:"required"`
}

func Load(validatorInst *validator.Validate) (*Config, error) {
	data, err := os.ReadFile("config/app.yaml")
	if err != nil {
		return nil, err
	}
	config := &Config{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}
	config.applyEnvOverrides()
	config.applyDefaults()
	err = validatorInst.Struct(config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Secrets are preferably injected through the environment so the yaml file can
// be committed without credentials.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.FeatureFlag.WebhookSecret = v
	}
	if v := os.Getenv("SPOT_API_TOKEN"); v != "" {
		c.Ocean.APIToken = v
	}
	if v := os.Getenv("SPOT_CLUSTER_ID"); v != "" {
		c.Ocean.ClusterID = v
	}
	if v := os.Getenv("LAUNCHDARKLY_SDK_KEY"); v != "" {
		c.Logging.LaunchDarklySDKKey = v
	}
	if v := os.Getenv("STATSIG_SERVER_KEY"); v != "" {
		c.Logging.StatsigServerKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.FeatureFlag.Provider == "" {
		c.FeatureFlag.Provider = constant.FlagProviderLaunchDarkly
	}
	if c.Logging.Provider == "" {
		c.Logging.Provider = constant.LoggingProviderAuto
	}
	if c.Logging.LaunchDarklyEventsURL == "" {
		c.Logging.LaunchDarklyEventsURL = constant.LaunchDarklyEventsURL
	}
	if c.Logging.StatsigEventsURL == "" {
		c.Logging.StatsigEventsURL = constant.StatsigEventsURL
	}
}
