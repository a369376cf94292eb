package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	responseheaders "github.com/always-cache/fwserve/pkg/response-headers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "fwserve.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoad(t *testing.T) {
	filename := writeConfig(t, `
listen: ":9090"
build:
  nonce: abc123
  uid: uid-1
  production: true
policy:
  longExpire: 240h
store:
  kind: s3
  s3:
    bucket: framework
    region: eu-north-1
    prefix: builds/42/
redis:
  addr: localhost:6379
headers:
  - prefix: /auraFW/resources/
    headers:
      Referrer-Policy: same-origin
log:
  file: fwserve.log
`)
	config, err := Load(filename)
	require.NoError(t, err)

	assert.Equal(t, ":9090", config.Listen)
	assert.Equal(t, "/auraFW", config.Mount)
	assert.Equal(t, "abc123", config.Build.Nonce)
	assert.Equal(t, "uid-1", config.Build.UID)
	assert.True(t, config.Build.Production)
	assert.Equal(t, 240*time.Hour, config.Policy.LongExpire)
	assert.Equal(t, 24*time.Hour, config.Policy.ShortExpire)
	assert.Equal(t, StoreS3, config.Store.Kind)
	assert.Equal(t, "framework", config.Store.S3.Bucket)
	assert.Equal(t, "builds/42/", config.Store.S3.Prefix)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, "fwserve:build", config.Redis.Key)
	assert.Equal(t, 10*time.Second, config.Redis.Interval)
	require.Len(t, config.Headers, 1)
	assert.Equal(t, "same-origin", config.Headers[0].Headers["Referrer-Policy"])
	assert.Equal(t, "fwserve.log", config.Log.File)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "listen: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }, "listen"},
		{"relative mount", func(c *Config) { c.Mount = "auraFW" }, "mount"},
		{"trailing slash mount", func(c *Config) { c.Mount = "/auraFW/" }, "mount"},
		{"negative expiry", func(c *Config) { c.Policy.ShortExpire = -time.Second }, "policy"},
		{"unknown store", func(c *Config) { c.Store.Kind = "ftp" }, "store.kind"},
		{"sqlite without file", func(c *Config) { c.Store.Kind = StoreSQLite }, "store.sqlite"},
		{"s3 without bucket", func(c *Config) { c.Store.Kind = StoreS3 }, "store.s3.bucket"},
		{"dir without dir", func(c *Config) { c.Store.Dir = "" }, "store.dir"},
		{"redis without interval", func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.Interval = 0 }, "redis.interval"},
		{"header rule without match", func(c *Config) {
			c.Headers = responseheaders.Rules{{Headers: map[string]string{"Referrer-Policy": "same-origin"}}}
		}, "headers"},
		{"header rule sets cache-control", func(c *Config) {
			c.Headers = responseheaders.Rules{{Prefix: "/", Headers: map[string]string{"Cache-Control": "max-age=60"}}}
		}, "headers"},
		{"header rule removes x-frame-options", func(c *Config) {
			c.Headers = responseheaders.Rules{{Prefix: "/", Remove: []string{"X-Frame-Options"}}}
		}, "headers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(&config)
			err := config.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarnings(t *testing.T) {
	config := Default()
	assert.Len(t, config.Warnings(), 1)

	config.Build.Nonce = "abc123"
	assert.Empty(t, config.Warnings())

	config.Build.Nonce = ""
	config.Redis.Addr = "localhost:6379"
	assert.Empty(t, config.Warnings())
}
