// Package config resolves the connection settings for the player service under test.
//
// Settings come from a Java-style properties file chosen by environment name. For environment
// "qa" the loader reads qa-config.properties if it exists, otherwise config.properties, and
// falls back to built-in defaults for every key that neither file provides. Any key can also be
// overridden by an environment variable: PLAYER_BASE_URL overrides base.url, and so on.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyBaseURL           = "base.url"
	KeyRequestTimeout    = "request.timeout"
	KeyConnectionTimeout = "connection.timeout"
	KeyMaxRetries        = "max.retries"
	KeyRetryDelay        = "retry.delay"

	DefaultEnvironment = "dev"
	EnvironmentVar     = "TEST_ENVIRONMENT"
	SourceDefaults     = "defaults"

	envPrefix       = "PLAYER"
	commonFileName  = "config.properties"
	envFileTemplate = "%s-config.properties"
)

var defaults = map[string]interface{}{
	KeyBaseURL:           "http://localhost:8080",
	KeyRequestTimeout:    30000,
	KeyConnectionTimeout: 10000,
	KeyMaxRetries:        3,
	KeyRetryDelay:        1000,
}

// Config is the resolved configuration. It is built once at startup and passed by value to
// whatever needs it.
type Config struct {
	BaseURL           string        `validate:"required,url"`
	RequestTimeout    time.Duration `validate:"gt=0"`
	ConnectionTimeout time.Duration `validate:"gt=0"`
	MaxRetries        int           `validate:"min=0"`
	RetryDelay        time.Duration `validate:"min=0"`
	Environment       string        `validate:"required"`

	// Source is the path of the properties file that was read, or SourceDefaults.
	Source string
}

type Options struct {
	// Environment selects <Environment>-config.properties. If empty, EnvironmentName() is used.
	Environment string
	// Dir is where properties files are looked up. Defaults to the working directory.
	Dir string
	// BaseURLOverride replaces base.url from any other source when non-empty.
	BaseURLOverride string
}

// EnvironmentName returns the value of TEST_ENVIRONMENT, or DefaultEnvironment if it is unset.
func EnvironmentName() string {
	if e := strings.TrimSpace(os.Getenv(EnvironmentVar)); e != "" {
		return e
	}
	return DefaultEnvironment
}

func Load(opts Options) (Config, error) {
	env := opts.Environment
	if env == "" {
		env = EnvironmentName()
	}

	v := viper.New()
	v.SetConfigType("properties")
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := SourceDefaults
	for _, name := range []string{fmt.Sprintf(envFileTemplate, env), commonFileName} {
		path := filepath.Join(opts.Dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("can't access %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("can't read %s: %w", path, err)
		}
		source = path
		break
	}

	c := Config{
		BaseURL:           strings.TrimSpace(v.GetString(KeyBaseURL)),
		RequestTimeout:    millis(v.GetInt(KeyRequestTimeout)),
		ConnectionTimeout: millis(v.GetInt(KeyConnectionTimeout)),
		MaxRetries:        v.GetInt(KeyMaxRetries),
		RetryDelay:        millis(v.GetInt(KeyRetryDelay)),
		Environment:       env,
		Source:            source,
	}
	if opts.BaseURLOverride != "" {
		c.BaseURL = opts.BaseURLOverride
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var validate = validator.New()

// Validate checks that the configuration is usable. Field errors are listed together.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value: %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
