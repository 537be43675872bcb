package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memowall/pkg/core"
)

// chdir moves into a fresh directory so no stray .env or memowall.yaml leaks in.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, core.DefaultStorageKey, cfg.Key)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadFile(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(`
store: sqlite
path: data/wall.db
key: team-wall
quota: 4096
viewport:
  width: 1024
  height: 768
watch: false
`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "data/wall.db", cfg.Path)
	assert.Equal(t, "team-wall", cfg.Key)
	assert.EqualValues(t, 4096, cfg.Quota)
	assert.Equal(t, core.Viewport{Width: 1024, Height: 768}, cfg.Viewport)
	assert.False(t, cfg.Watch)
	assert.Equal(t, ":8080", cfg.Addr, "unset fields keep defaults")
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	chdir(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdir(t)
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("store: [unclosed"), 0644))

	_, err := Load(file)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("store: sqlite\nkey: from-file\n"), 0644))

	t.Setenv(EnvConfig, "custom.yaml")
	t.Setenv(EnvKey, "from-env")
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvViewportW, "640")
	t.Setenv(EnvReadOnly, "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "from-env", cfg.Key)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 640.0, cfg.Viewport.Width)
	assert.True(t, cfg.ReadOnly)

	t.Setenv(EnvAddr, "127.0.0.1:7000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr, "MEMOWALL_ADDR wins over PORT")
}

func TestLoadInvalidEnv(t *testing.T) {
	chdir(t)
	t.Setenv(EnvQuota, "lots")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEMOWALL_STORE=memory\n"), 0644))
	// godotenv sets the variable for the process; let t.Setenv restore it.
	t.Setenv(EnvStore, "")
	os.Unsetenv(EnvStore)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
}
