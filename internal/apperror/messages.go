package apperror

// messages maps error codes to human-readable messages.
var messages = map[Code]string{
	// General
	CodeRequiredField:      "Required field is missing",
	CodeInvalidInput:       "Invalid input provided",
	CodeInvalidFormat:      "Invalid data format",
	CodeNotFound:           "Resource not found",
	CodeConfigurationError: "Configuration error",
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	// Solana RPC
	CodeSolanaConnectionFailed: "Failed to connect to Solana RPC node",
	CodeSolanaRPCError:         "Solana RPC call failed",
	CodeAccountNotFound:        "Account not found on chain",
	CodeTokenBalanceFailed:     "Failed to read token account balance",
	CodeSubscriptionFailed:     "Failed to subscribe to account updates",

	// WebSocket
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Pool decoding
	CodeLayoutTooShort:    "Account data shorter than pool layout",
	CodeUnknownLayout:     "Unknown pool layout kind",
	CodePoolStateInvalid:  "Pool state is invalid or not ready",
	CodePoolNotConfigured: "No pool configured for pair on this venue",

	// Price normalization
	CodeDivideByZero: "Base vault balance is zero",
	CodeUnknownMint:  "Mint not present in token registry",

	// Arbitrage detection
	CodeInvalidReserves:       "Swap reserves must be positive",
	CodeReserveReadFailed:     "Failed to read lending reserve liquidity",
	CodeDetectionSkipped:      "Detection cycle skipped",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	// Circuit breaker
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
