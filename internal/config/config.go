// Package config builds the immutable run configuration from flags, environment and an
// optional profile file.
package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/worker"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/syndigo"
)

// EnvPrefix is prepended to every environment variable, e.g. ATTRCHECK_CLIENT_SECRET.
const EnvPrefix = "ATTRCHECK"

// Keys understood by Load.
const (
	KeyTenant         = "tenant"
	KeyEntity         = "entity"
	KeyUserID         = "user_id"
	KeyClientID       = "client_id"
	KeyClientSecret   = "client_secret"
	KeyBaseURL        = "base_url"
	KeyCAFile         = "ca_file"
	KeyMode           = "mode"
	KeyWorkers        = "workers"
	KeyRequestTimeout = "request_timeout"
)

var tenantRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// Config is constructed once per run, validated, then passed by value.
type Config struct {
	Tenant       string
	Entity       string
	UserID       string
	ClientID     string
	ClientSecret string

	BaseURL string
	CAFile  string

	Mode           worker.Mode
	Workers        int
	RequestTimeout time.Duration
}

// NewViper returns a viper instance with defaults and ATTRCHECK_* environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyUserID, syndigo.DefaultUserID)
	v.SetDefault(KeyMode, string(worker.ModeParallel))
	v.SetDefault(KeyWorkers, worker.DefaultWorkers)
	v.SetDefault(KeyRequestTimeout, time.Duration(0))
}

// ReadProfile merges a YAML/TOML/JSON profile file into v. Flags and environment still win.
func ReadProfile(v *viper.Viper, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return core.NewConfigError(errors.Wrapf(err, "read profile %s", path))
	}
	return nil
}

// Load reads a Config from v. It does not validate.
func Load(v *viper.Viper) (Config, error) {
	mode, err := worker.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return Config{}, core.NewConfigError(err)
	}
	return Config{
		Tenant:         strings.TrimSpace(v.GetString(KeyTenant)),
		Entity:         strings.TrimSpace(v.GetString(KeyEntity)),
		UserID:         strings.TrimSpace(v.GetString(KeyUserID)),
		ClientID:       strings.TrimSpace(v.GetString(KeyClientID)),
		ClientSecret:   strings.TrimSpace(v.GetString(KeyClientSecret)),
		BaseURL:        strings.TrimSpace(v.GetString(KeyBaseURL)),
		CAFile:         strings.TrimSpace(v.GetString(KeyCAFile)),
		Mode:           mode,
		Workers:        v.GetInt(KeyWorkers),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
	}, nil
}

// WithTenant returns a copy with the tenant set, unless one is already configured.
func (c Config) WithTenant(tenant string) Config {
	if c.Tenant == "" {
		c.Tenant = strings.TrimSpace(tenant)
	}
	return c
}

// Validate checks required fields. requireEntity is set for flat uploads, where the entity
// cannot be derived from the input.
func (c Config) Validate(requireEntity bool) error {
	var missing []string
	if c.Tenant == "" {
		missing = append(missing, "tenant")
	}
	if requireEntity && c.Entity == "" {
		missing = append(missing, "entity")
	}
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		return core.NewConfigError(errors.WithHint(
			errors.Newf("missing required fields: %s", strings.Join(missing, ", ")),
			"pass them as flags, ATTRCHECK_* environment variables or in a --config profile",
		))
	}
	if !tenantRe.MatchString(c.Tenant) {
		return core.NewConfigError(errors.Newf("tenant %q is not a valid host name label", c.Tenant))
	}
	if c.Workers <= 0 {
		return core.NewConfigError(errors.Newf("workers must be positive, got %d", c.Workers))
	}
	if c.RequestTimeout < 0 {
		return core.NewConfigError(errors.Newf("request timeout must not be negative, got %s", c.RequestTimeout))
	}
	return nil
}

// Template is the request template for the dispatch stage.
func (c Config) Template() syndigo.Template {
	return syndigo.Template{
		Tenant:       c.Tenant,
		BaseURL:      c.BaseURL,
		UserID:       c.UserID,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
}

// WorkerOptions maps the dispatch settings onto the worker pool.
func (c Config) WorkerOptions() worker.Options {
	return worker.Options{Mode: c.Mode, Workers: c.Workers}
}

// LogFields describes the configuration without credentials.
func (c Config) LogFields() []zap.Field {
	fields := []zap.Field{
		zap.String("tenant", c.Tenant),
		zap.String("user_id", c.UserID),
		zap.Bool("client_id_set", c.ClientID != ""),
		zap.String("mode", string(c.Mode)),
		zap.Int("workers", c.Workers),
	}
	if c.Entity != "" {
		fields = append(fields, zap.String("entity", c.Entity))
	}
	if c.BaseURL != "" {
		fields = append(fields, zap.String("base_url", c.BaseURL))
	}
	if c.RequestTimeout > 0 {
		fields = append(fields, zap.Duration("request_timeout", c.RequestTimeout))
	}
	return fields
}
