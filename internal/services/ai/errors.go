package ai

import "errors"

var (
	ErrAINotConfigured       = errors.New("AI provider is not configured")
	ErrAIProviderUnavailable = errors.New("AI provider is currently unavailable") // 503
	ErrRateLimitExceeded     = errors.New("rate limit exceeded")                  // 429
	ErrMalformedReply        = errors.New("AI reply contained no usable suggestions")
)
