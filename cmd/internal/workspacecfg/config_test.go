package workspacecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "pc", cfg.Platform)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, filepath.Join(dir, ".bonebudget"), cfg.ReportStorePath())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Platform = "android"
	cfg.Store = StoreSQLite
	cfg.Parallel = 4
	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "android", loaded.Platform)
	assert.Equal(t, 4, loaded.Parallel)
	assert.Equal(t, filepath.Join(dir, ".bonebudget", "reports.db"), loaded.ReportStorePath())
	assert.Equal(t, "/abs/t.yaml", loaded.Resolve("/abs/t.yaml"))
	assert.Equal(t, filepath.Join(dir, "t.yaml"), loaded.Resolve("t.yaml"))
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("platform: pc\nstore: redis\n"), 0o644))
	_, err := Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("platform: pc\nparallel: -1\n"), 0o644))
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestConfigValueHelpers(t *testing.T) {
	data := map[string]interface{}{"platform": "pc"}
	value, ok := GetValue(data, "platform")
	require.True(t, ok)
	require.Equal(t, "pc", value)

	require.NoError(t, SetValue(data, "parallel", ParseValue("8")))
	value, ok = GetValue(data, "parallel")
	require.True(t, ok)
	require.Equal(t, int64(8), value)

	require.NoError(t, SetValue(data, "extra.nested", "x"))
	value, ok = GetValue(data, "extra.nested")
	require.True(t, ok)
	require.Equal(t, "x", value)
	_, ok = GetValue(data, "platform.deeper")
	require.False(t, ok)

	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, 0.5, ParseValue("0.5"))
	assert.Equal(t, "android", ParseValue("android"))
}

func TestWriteMapValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteMap(path, map[string]interface{}{"platform": "android", "debug": true}))
	data, err := ReadMap(path)
	require.NoError(t, err)
	assert.Equal(t, "android", data["platform"])

	assert.Error(t, WriteMap(path, map[string]interface{}{"store": "redis"}))
}
