package constant

type FlagProvider string

const (
	FlagProviderLaunchDarkly FlagProvider = "launchdarkly"
	FlagProviderStatsig      FlagProvider = "statsig"
)

// Well known cost optimizer flag keys. Only these keys trigger scaling,
// every other key is acknowledged without action.
const (
	LaunchDarklyCostOptimizerFlag = "enable-cost-optimizer"
	StatsigCostOptimizerGate      = "enable_cost_optimizer"
)

const (
	LaunchDarklySignatureHeader = "X-LD-Signature"
	StatsigSignatureHeader      = "X-Statsig-Signature"

	// Statsig prefixes its hex digest, LaunchDarkly sends it bare.
	StatsigSignaturePrefix = "sha256="
)

type LoggingProvider string

const (
	LoggingProviderLaunchDarkly LoggingProvider = "launchdarkly"
	LoggingProviderStatsig      LoggingProvider = "statsig"
	LoggingProviderAuto         LoggingProvider = "auto"
	LoggingProviderDisabled     LoggingProvider = "disabled"
)
