package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpitdev/syndigo-attribute-checker/internal/config"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/worker"
)

func TestLoad_Defaults(t *testing.T) {
	v := config.NewViper()
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "system", cfg.UserID)
	assert.Equal(t, worker.ModeParallel, cfg.Mode)
	assert.Equal(t, 10, cfg.Workers)
	assert.Zero(t, cfg.RequestTimeout)
}

func TestLoad_EnvAndProfile(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "acme.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`
tenant: acmeds
entity: finishedgood
client_id: from-file
mode: sequential
request_timeout: 15s
`), 0o600))

	t.Setenv("ATTRCHECK_CLIENT_SECRET", "from-env")
	t.Setenv("ATTRCHECK_CLIENT_ID", "env-wins")

	v := config.NewViper()
	require.NoError(t, config.ReadProfile(v, profile))
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "acmeds", cfg.Tenant)
	assert.Equal(t, "finishedgood", cfg.Entity)
	assert.Equal(t, "env-wins", cfg.ClientID)
	assert.Equal(t, "from-env", cfg.ClientSecret)
	assert.Equal(t, worker.ModeSequential, cfg.Mode)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate(true))
}

func TestReadProfile_Missing(t *testing.T) {
	err := config.ReadProfile(config.NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	var ce *core.ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
}

func TestLoad_BadMode(t *testing.T) {
	v := config.NewViper()
	v.Set(config.KeyMode, "threads")
	_, err := config.Load(v)
	var ce *core.ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Tenant:       "acmeds",
		Entity:       "finishedgood",
		UserID:       "system",
		ClientID:     "cid",
		ClientSecret: "secret",
		Mode:         worker.ModeParallel,
		Workers:      10,
	}
	require.NoError(t, valid.Validate(true))

	tests := []struct {
		name          string
		mutate        func(c *config.Config)
		requireEntity bool
		wantMsg       string
	}{
		{name: "missing credentials", mutate: func(c *config.Config) { c.ClientID, c.ClientSecret = "", "" }, wantMsg: "client id, client secret"},
		{name: "missing tenant", mutate: func(c *config.Config) { c.Tenant = "" }, wantMsg: "tenant"},
		{name: "missing entity in flat mode", mutate: func(c *config.Config) { c.Entity = "" }, requireEntity: true, wantMsg: "entity"},
		{name: "bad tenant", mutate: func(c *config.Config) { c.Tenant = "acme.evil.com/" }, wantMsg: "host name"},
		{name: "zero workers", mutate: func(c *config.Config) { c.Workers = 0 }, wantMsg: "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate(tt.requireEntity)
			var ce *core.ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	noEntity := valid
	noEntity.Entity = ""
	assert.NoError(t, noEntity.Validate(false))
}

func TestWithTenant(t *testing.T) {
	assert.Equal(t, "fromfile", config.Config{}.WithTenant(" fromfile ").Tenant)
	assert.Equal(t, "flag", config.Config{Tenant: "flag"}.WithTenant("fromfile").Tenant)
}

func TestLogFieldsOmitSecret(t *testing.T) {
	cfg := config.Config{Tenant: "acmeds", ClientID: "cid", ClientSecret: "top-secret"}
	for _, f := range cfg.LogFields() {
		assert.NotEqual(t, "top-secret", f.String)
	}
}
