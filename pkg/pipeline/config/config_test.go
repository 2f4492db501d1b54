package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-blockpipe/pkg/pipeline"
	"github.com/askiada/go-blockpipe/pkg/pipeline/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, pipeline.DefaultBlockSize, cfg.BlockSize)
	assert.Equal(t, int64(-1), cfg.ReadLimit)
	assert.False(t, cfg.EndOnZeroRead)
	assert.False(t, cfg.ProtectSource)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, config.FormatJSON, cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.BlockSize = 0
	cfg.ReadLimit = -2
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block_size")
	assert.Contains(t, err.Error(), "read_limit")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "blockpipe.yml", `
block_size: 64
read_limit: 1000
end_on_zero_read: true
log:
  level: debug
  format: console
`)

	cfg, err := config.Load(config.WithConfigFile(path), config.WithEnvPrefix("BLOCKPIPE_TEST_FILE"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.BlockSize)
	assert.Equal(t, int64(1000), cfg.ReadLimit)
	assert.True(t, cfg.EndOnZeroRead)
	assert.False(t, cfg.ProtectSource)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.FormatConsole, cfg.Log.Format)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "missing.yml")))
	require.Error(t, err)

	path := writeFile(t, "blockpipe.yml", "block_size: 0\n")
	_, err = config.Load(config.WithConfigFile(path), config.WithEnvPrefix("BLOCKPIPE_TEST_INVALID"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block_size")

	path = writeFile(t, "blockpipe.yml", "log:\n  level: loud\n")
	_, err = config.Load(config.WithConfigFile(path), config.WithEnvPrefix("BLOCKPIPE_TEST_INVALID"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BLOCKPIPE_TEST_ENV_BLOCK_SIZE", "128")
	t.Setenv("BLOCKPIPE_TEST_ENV_PROTECT_SOURCE", "true")
	t.Setenv("BLOCKPIPE_TEST_ENV_LOG_LEVEL", "warn")

	path := writeFile(t, "blockpipe.yml", "block_size: 64\nread_limit: 10\n")
	cfg, err := config.Load(config.WithConfigFile(path), config.WithEnvPrefix("BLOCKPIPE_TEST_ENV"))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.BlockSize)
	assert.Equal(t, int64(10), cfg.ReadLimit)
	assert.True(t, cfg.ProtectSource)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("BLOCKPIPE_TEST_DOTENV_BLOCK_SIZE", "32")
	path := writeFile(t, ".env", "BLOCKPIPE_TEST_DOTENV_BLOCK_SIZE=16\nBLOCKPIPE_TEST_DOTENV_READ_LIMIT=42\n")
	t.Cleanup(func() { os.Unsetenv("BLOCKPIPE_TEST_DOTENV_READ_LIMIT") })

	cfg, err := config.Load(config.WithEnvFile(path), config.WithEnvPrefix("BLOCKPIPE_TEST_DOTENV"))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.BlockSize, "the environment wins over the env file")
	assert.Equal(t, int64(42), cfg.ReadLimit)

	_, err = config.Load(config.WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.BlockSize = 4
	cfg.ReadLimit = 10
	cfg.Log.Level = "debug"

	var logs bytes.Buffer
	pipe, err := pipeline.New[byte](pipeline.NewSliceSource([]byte("abcdefghijklmnop")), cfg.Options(&logs)...)
	require.NoError(t, err)

	sink := pipeline.NewBufferSink[byte](0)
	total, err := pipe.Run(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, []byte("abcdefghij"), sink.Units())

	assert.Contains(t, logs.String(), `"message":"pipeline finished"`)
	assert.Contains(t, logs.String(), pipe.ID())
}

func TestOptionsInvalid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.BlockSize = -1

	_, err := pipeline.New[byte](pipeline.NewSliceSource([]byte("abc")), cfg.Options(&bytes.Buffer{})...)
	require.ErrorIs(t, err, pipeline.ErrInvalidBlockSize)
}
