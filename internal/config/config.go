package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const (
	DefaultUsersAPIURL     = "https://jsonplaceholder.typicode.com"
	DefaultProfileMinDelay = 1 * time.Second
	DefaultProfileMaxDelay = 5 * time.Second
)

type Config struct {
	sentryDSN          string
	usersAPIURL        string
	profileMinDelay    time.Duration
	profileMaxDelay    time.Duration
	otelEnabled        bool
	googleCloudProject string
	env                environment
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) UsersAPIURL() string {
	return c.usersAPIURL
}

func (c *Config) ProfileMinDelay() time.Duration {
	return c.profileMinDelay
}

func (c *Config) ProfileMaxDelay() time.Duration {
	return c.profileMaxDelay
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

func (c *Config) GoogleCloudProject() string {
	return c.googleCloudProject
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, usersAPIURL: %s, profileDelay: %s-%s, otelEnabled: %t, ...}",
		string(c.env),
		c.usersAPIURL,
		c.profileMinDelay,
		c.profileMaxDelay,
		c.otelEnabled,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}
	invalidValue := func(key, value string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, value)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("SUSPENSE_ENVIRONMENT")
	if !ok {
		return missingKey("SUSPENSE_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return invalidValue("SUSPENSE_ENVIRONMENT", rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	googleCloudProject := os.Getenv("GOOGLE_CLOUD_PROJECT")

	if env == production || env == staging {
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	usersAPIURL := DefaultUsersAPIURL
	if rawURL := os.Getenv("USERS_API_URL"); rawURL != "" {
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return invalidValue("USERS_API_URL", rawURL)
		}
		usersAPIURL = rawURL
	}

	profileMinDelay := DefaultProfileMinDelay
	if rawDelay := os.Getenv("PROFILE_MIN_DELAY"); rawDelay != "" {
		delay, err := time.ParseDuration(rawDelay)
		if err != nil || delay < 0 {
			return invalidValue("PROFILE_MIN_DELAY", rawDelay)
		}
		profileMinDelay = delay
	}

	profileMaxDelay := DefaultProfileMaxDelay
	if rawDelay := os.Getenv("PROFILE_MAX_DELAY"); rawDelay != "" {
		delay, err := time.ParseDuration(rawDelay)
		if err != nil || delay < 0 {
			return invalidValue("PROFILE_MAX_DELAY", rawDelay)
		}
		profileMaxDelay = delay
	}

	if profileMaxDelay < profileMinDelay {
		return invalidValue("PROFILE_MAX_DELAY", fmt.Sprintf("%s < PROFILE_MIN_DELAY %s", profileMaxDelay, profileMinDelay))
	}

	otelEnabled := false
	if rawEnabled := os.Getenv("OTEL_ENABLED"); rawEnabled != "" {
		enabled, err := strconv.ParseBool(rawEnabled)
		if err != nil {
			return invalidValue("OTEL_ENABLED", rawEnabled)
		}
		otelEnabled = enabled
	}

	return Config{
		sentryDSN:          sentryDSN,
		usersAPIURL:        usersAPIURL,
		profileMinDelay:    profileMinDelay,
		profileMaxDelay:    profileMaxDelay,
		otelEnabled:        otelEnabled,
		googleCloudProject: googleCloudProject,
		env:                env,
	}, nil
}
