package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Model   string        `split_words:"true" default:"qwen/qwen3-32b"`
	Timeout time.Duration `split_words:"true" default:"30s"`
	MaxHits int           `split_words:"true" default:"1"`
}

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_MODEL=llama-3.3-70b\nCFGTEST_MAX_HITS=3\n"), 0o600))

	t.Cleanup(func() {
		SetEnvFile("")
		_ = os.Unsetenv("CFGTEST_MODEL")
		_ = os.Unsetenv("CFGTEST_MAX_HITS")
	})
	SetEnvFile(path)

	conf, err := New[sampleConfig]("CFGTEST")
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b", conf.Model)
	assert.Equal(t, 3, conf.MaxHits)
	assert.Equal(t, 30*time.Second, conf.Timeout)
}

func TestNewProcessEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGWIN_MODEL=from-file\n"), 0o600))

	t.Setenv("CFGWIN_MODEL", "from-env")
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(path)

	conf, err := New[sampleConfig]("CFGWIN")
	require.NoError(t, err)
	assert.Equal(t, "from-env", conf.Model)
}

func TestNewMissingExplicitFile(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(filepath.Join(t.TempDir(), "absent.env"))

	_, err := New[sampleConfig]("CFGMISSING")
	require.Error(t, err)
}

func TestMustNewPanicsOnInvalidValue(t *testing.T) {
	t.Setenv("CFGBAD_TIMEOUT", "not-a-duration")

	assert.Panics(t, func() {
		MustNew[sampleConfig]("CFGBAD")
	})
}
