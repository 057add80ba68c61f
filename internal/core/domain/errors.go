package domain

import "errors"

// Identity resolution errors.
var (
	ErrMissingCredential   = errors.New("wrong username or empty token")
	ErrIdentityMismatch    = errors.New("wrong identity provider user profile")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrProviderRateLimited = errors.New("identity provider rate limited, please try later")
	ErrVerifyTimeout       = errors.New("identity verification timed out")
)

// Authorization and entity errors.
var (
	ErrForbidden      = errors.New("unauthorized")
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidRuleSet = errors.New("invalid rule set")
	ErrInvalidComment = errors.New("invalid comment")
	ErrInvalidImage   = errors.New("image must be a base64 data url")
	ErrStorage        = errors.New("storage unavailable")
)
