package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes
const (
	CodeRequiredField      Code = "REQUIRED_FIELD"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidFormat      Code = "INVALID_FORMAT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Solana RPC errors
const (
	CodeSolanaConnectionFailed Code = "SOLANA_CONNECTION_FAILED"
	CodeSolanaRPCError         Code = "SOLANA_RPC_ERROR"
	CodeAccountNotFound        Code = "ACCOUNT_NOT_FOUND"
	CodeTokenBalanceFailed     Code = "TOKEN_BALANCE_FAILED"
	CodeSubscriptionFailed     Code = "SUBSCRIPTION_FAILED"
)

// WebSocket errors
const (
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"
)

// Pool decoding errors
const (
	CodeLayoutTooShort     Code = "LAYOUT_TOO_SHORT"
	CodeUnknownLayout      Code = "UNKNOWN_LAYOUT"
	CodePoolStateInvalid   Code = "POOL_STATE_INVALID"
	CodePoolNotConfigured  Code = "POOL_NOT_CONFIGURED"
)

// Price normalization errors
const (
	CodeDivideByZero Code = "DIVIDE_BY_ZERO"
	CodeUnknownMint  Code = "UNKNOWN_MINT"
)

// Arbitrage detection errors
const (
	CodeInvalidReserves       Code = "INVALID_RESERVES"
	CodeReserveReadFailed     Code = "RESERVE_READ_FAILED"
	CodeDetectionSkipped      Code = "DETECTION_SKIPPED"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
)

// Circuit breaker errors
const (
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
