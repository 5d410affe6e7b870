package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8001", cfg.TCPPort)
	assert.Equal(t, PolicyDrop, cfg.IntegrityPolicy)
	assert.Equal(t, 5*time.Minute, cfg.ReadTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codec8.yaml")
	yml := `tcp_port: "5027"
redis_addr: "redis:6379"
redis_db: 2
integrity_policy: accept
read_timeout: 30s
max_frame_size: 4096
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("TCP_PORT", "6000")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "6000", cfg.TCPPort)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, PolicyAccept, cfg.IntegrityPolicy)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 4096, cfg.MaxFrameSize)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("bad policy", func(t *testing.T) {
		t.Setenv("INTEGRITY_POLICY", "ignore")
		_, err := Load("")
		assert.ErrorContains(t, err, "integrity_policy")
	})
	t.Run("bad int", func(t *testing.T) {
		t.Setenv("MAX_FRAME_SIZE", "big")
		_, err := Load("")
		assert.ErrorContains(t, err, "MAX_FRAME_SIZE")
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("READ_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "READ_TIMEOUT")
	})
}
