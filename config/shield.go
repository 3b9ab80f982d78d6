package config

import (
	"time"

	"main/utils"
)

// ShieldConfig holds the emergency access policy knobs. Defaults match
// the product behavior: a 72 hour confirmation window, 30 day tokens and
// five verification code attempts before a token locks for good.
type ShieldConfig struct {
	ActivationWindow         time.Duration
	TokenTTL                 time.Duration
	MaxCodeAttempts          int
	ConfirmationLinkTTL      time.Duration
	DownloadLinkTTL          time.Duration
	StatusCacheTTL           time.Duration
	VerifyRateLimit          int
	VerifyRateWindow         time.Duration
	DefaultInactivityMonths  int
	DefaultRequiredGuardians int
	BaseURL                  string
}

func LoadShieldConfig() ShieldConfig {
	return ShieldConfig{
		ActivationWindow:         utils.GetEnvAsDuration("ACTIVATION_WINDOW", 72*time.Hour),
		TokenTTL:                 utils.GetEnvAsDuration("ACCESS_TOKEN_TTL", 30*24*time.Hour),
		MaxCodeAttempts:          utils.GetEnvAsInt("MAX_CODE_ATTEMPTS", 5),
		ConfirmationLinkTTL:      utils.GetEnvAsDuration("CONFIRMATION_LINK_TTL", 72*time.Hour),
		DownloadLinkTTL:          utils.GetEnvAsDuration("DOWNLOAD_LINK_TTL", 5*time.Minute),
		StatusCacheTTL:           utils.GetEnvAsDuration("SHIELD_STATUS_CACHE_TTL", 30*time.Second),
		VerifyRateLimit:          utils.GetEnvAsInt("VERIFY_RATE_LIMIT", 10),
		VerifyRateWindow:         utils.GetEnvAsDuration("VERIFY_RATE_WINDOW", time.Minute),
		DefaultInactivityMonths:  utils.GetEnvAsInt("DEFAULT_INACTIVITY_MONTHS", 6),
		DefaultRequiredGuardians: utils.GetEnvAsInt("DEFAULT_REQUIRED_GUARDIANS", 1),
		BaseURL:                  utils.GetEnvAsString("APP_BASE_URL", "http://localhost:8080"),
	}
}
