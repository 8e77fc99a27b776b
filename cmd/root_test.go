package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvollmar/roost/internal/config"
	"github.com/nvollmar/roost/internal/flags"
)

// setTestConfig installs a config for the duration of a test, bypassing
// viper so tests don't depend on files in the working directory.
func setTestConfig(t *testing.T, c config.Config) {
	t.Helper()
	prevCfg, prevFlags := cfg, featureFlags
	cfg = c
	featureFlags = flags.New(c.Flags)
	t.Cleanup(func() {
		cfg, featureFlags = prevCfg, prevFlags
	})
}

func TestBuildRegistry_RejectsInvalidConfig(t *testing.T) {
	setTestConfig(t, config.Config{Home: ""})

	_, err := buildRegistry()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}

func TestBuildRegistry_ResolvesAgainstHome(t *testing.T) {
	home := t.TempDir()
	setTestConfig(t, config.Config{
		Home:  home,
		Paths: map[string]string{"uploads": "files/uploads"},
	})

	reg, err := buildRegistry()
	require.NoError(t, err)

	path, err := reg.Resolve("uploads")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "files", "uploads"), path)
}

func TestBuildRegistry_WithResolveCacheFlag(t *testing.T) {
	home := t.TempDir()
	setTestConfig(t, config.Config{
		Home:  home,
		Paths: map[string]string{"uploads": "files/uploads"},
		Flags: map[string]bool{flags.FlagResolveCache: true},
	})

	reg, err := buildRegistry()
	require.NoError(t, err)

	first, err := reg.Resolve("uploads")
	require.NoError(t, err)
	second, err := reg.Resolve("uploads")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRunList_PrintsConfiguredKeys(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "files", "uploads"), 0o750))
	setTestConfig(t, config.Config{
		Home: home,
		Paths: map[string]string{
			"uploads": "files/uploads",
			"cache":   "var/cache",
		},
	})

	var out bytes.Buffer
	listCmd.SetOut(&out)
	defer listCmd.SetOut(nil)

	require.NoError(t, runList(listCmd, nil))

	output := out.String()
	require.Contains(t, output, "uploads")
	require.Contains(t, output, filepath.Join(home, "files", "uploads"))
	require.Contains(t, output, "ok")
	require.Contains(t, output, "missing") // cache was never ensured
}

func TestRunList_EmptyConfig(t *testing.T) {
	home := t.TempDir()
	setTestConfig(t, config.Config{Home: home})

	var out bytes.Buffer
	listCmd.SetOut(&out)
	defer listCmd.SetOut(nil)

	require.NoError(t, runList(listCmd, nil))
	require.Contains(t, out.String(), "no paths configured")
}

func TestConfigFilePath_DefaultsWhenUnset(t *testing.T) {
	require.Equal(t, ".roost/config.yaml", configFilePath())
}
