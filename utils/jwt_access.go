package utils

import (
	"log"
	"os"
)

var (
	// JWTSecretKey signs guardian confirmation links and document
	// download URLs, and verifies user bearer tokens minted by the
	// identity provider.
	JWTSecretKey string

	// ServiceAPIKey authenticates the external scheduler calling the
	// sweep endpoints.
	ServiceAPIKey string
)

func InitJWT() {
	// For tests, use default values if environment variables aren't set
	if os.Getenv("GO_ENV") == "test" {
		if os.Getenv("JWT_SECRET_KEY") == "" {
			os.Setenv("JWT_SECRET_KEY", "test_secret_key")
		}
		if os.Getenv("SERVICE_API_KEY") == "" {
			os.Setenv("SERVICE_API_KEY", "test_service_key")
		}
	}

	JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	if JWTSecretKey == "" {
		log.Fatal("JWT Secret Key not set")
	}

	ServiceAPIKey = os.Getenv("SERVICE_API_KEY")
	if ServiceAPIKey == "" {
		log.Fatal("Service API Key not set")
	}
}
