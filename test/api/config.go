/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultUsername is the account the story twin provisions when no
	// credentials are configured.
	DefaultUsername = "story-e2e"
	// DefaultPassword pairs with DefaultUsername.
	DefaultPassword = "story-e2e-password" //nolint:gosec // test fixture credential
)

type TestConfig struct {
	BaseURL          string
	Username         string
	Password         string
	RequestTimeout   time.Duration
	TestTimeout      time.Duration
	SkipIntegration  bool
	ValidateContract bool
	DebugLogging     bool
	LogRequests      bool
	LogResponses     bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:          strings.TrimSuffix(os.Getenv("API_BASE_URL"), "/"),
		Username:         getStringWithDefault("API_USERNAME", DefaultUsername),
		Password:         getStringWithDefault("API_PASSWORD", DefaultPassword),
		RequestTimeout:   getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:      getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		SkipIntegration:  getBoolWithDefault("SKIP_INTEGRATION", false),
		ValidateContract: getBoolWithDefault("VALIDATE_CONTRACT", true),
		DebugLogging:     getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:      getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:     getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// UseTwin reports whether no remote API is configured, in which case callers
// are expected to start the in-process story twin and point BaseURL at it.
func (c *TestConfig) UseTwin() bool {
	return c.BaseURL == ""
}

// Validate checks that all required configuration values are set and sane.
func (c *TestConfig) Validate() error {
	var missing []string

	required := []struct {
		envVar string
		value  string
	}{
		{"API_USERNAME", c.Username},
		{"API_PASSWORD", c.Password},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("%w: API_BASE_URL: %w", ErrInvalidConfiguration, err)
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: API_BASE_URL must be an absolute http(s) URL, got %q", ErrInvalidConfiguration, c.BaseURL)
		}
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive", ErrInvalidConfiguration)
	}

	return nil
}

// getStringWithDefault gets a string from environment variable or returns default.
func getStringWithDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env", // From test/api/suites directory
		"test/.env",  // From the repository root, e.g. the CLI
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
