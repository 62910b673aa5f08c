package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "coach", cfg.Auth.CoachUsername)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: mongo
  uri: mongodb://db:27017
  name: team
jwt:
  secret: file-secret
  expiration: 90m
auth:
  coach_username: head
  coach_password: pool
app:
  timezone: UTC
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "team", cfg.Database.Name)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: DriverMemory},
		JWT:      JWTConfig{Secret: "s", Expiration: time.Hour},
		Auth:     AuthConfig{CoachUsername: "coach", CoachPassword: "pw"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"mongo without uri", func(c *Config) { c.Database.Driver = DriverMongo }},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }},
		{"zero expiration", func(c *Config) { c.JWT.Expiration = 0 }},
		{"missing coach password", func(c *Config) { c.Auth.CoachPassword = "" }},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
