package fakeapi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// minSigningKeyLength is the shortest signing key accepted outside development.
const minSigningKeyLength = 32

var weakSigningKeys = []string{
	"fakeapi-development-signing-key",
	"changeme",
	"secret",
	"password",
	"test",
	"dev",
	"development",
}

// ValidateSigningKey checks a token signing key. Known weak keys are accepted
// with a warning in development and rejected otherwise.
func ValidateSigningKey(key string, isDev bool, logger *slog.Logger) error {
	if key == "" {
		return errors.New("signing key is required")
	}

	for _, weak := range weakSigningKeys {
		if key == weak {
			if isDev {
				if logger != nil {
					logger.Warn("using a default signing key, not for shared deployments")
				}
				return nil
			}
			return errors.New("default or weak signing key not allowed outside development")
		}
	}

	if len(key) < minSigningKeyLength {
		return fmt.Errorf("signing key must be at least %d characters (got %d)", minSigningKeyLength, len(key))
	}
	return nil
}

// IsDevelopmentMode reports whether ENVIRONMENT or GO_ENV names a development
// environment.
func IsDevelopmentMode() bool {
	for _, name := range []string{"ENVIRONMENT", "GO_ENV"} {
		switch os.Getenv(name) {
		case "development", "dev":
			return true
		}
	}
	return false
}
