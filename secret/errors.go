package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	ErrMissingEnv            = errors.New("secret: missing required environment variables")
	ErrProviderNotRegistered = errors.New("secret: provider is not registered")
	ErrEmptySecret           = errors.New("secret: resolved value is empty")
	ErrNotFound              = errors.New("secret: reference not found")
)
