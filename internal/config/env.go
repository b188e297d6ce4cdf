package config

import (
	"os"
	"strconv"
)

// APIKeyEnvVars are checked in order for the Gemini API key
var APIKeyEnvVars = []string{"GEMINIAI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"}

// FromEnv reads the configuration from environment variables.
// Unset or unparsable values are left zero so defaults can fill them.
func FromEnv() Config {
	return Config{
		Port:         envInt("PORT"),
		MaxUploadMB:  envInt("WORKREADY_MAX_UPLOAD_MB"),
		CORSOrigin:   os.Getenv("WORKREADY_CORS_ORIGIN"),
		APIKey:       APIKeyFromEnv(),
		Model:        os.Getenv("WORKREADY_MODEL"),
		Temperature:  envFloat("WORKREADY_TEMPERATURE"),
		Labels:       os.Getenv("WORKREADY_LABELS"),
		MaxPages:     envInt("WORKREADY_MAX_PAGES"),
		BrowserFetch: envBool("WORKREADY_BROWSER_FETCH"),
		Verbose:      envBool("WORKREADY_VERBOSE"),
	}
}

// APIKeyFromEnv returns the first API key found in APIKeyEnvVars
func APIKeyFromEnv() string {
	for _, key := range APIKeyEnvVars {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func envInt(key string) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return 0
}

func envFloat(key string) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return 0
}

func envBool(key string) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return false
}
