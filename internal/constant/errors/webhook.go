package errorConstant

const (
	InvalidSignature      = "invalid signature"
	InvalidJSONPayload    = "invalid JSON payload"
	EmptyJSONPayload      = "empty JSON payload"
	WrongProviderEndpoint = "wrong provider endpoint, expected %s"
	ProviderNotSupported  = "unsupported feature flag provider: %s"
	InternalServerError   = "internal server error"
)
