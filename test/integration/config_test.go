package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ozonewl/dhost/test/integration/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPathDefaultsToUserConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skipf("path layout checked on linux only, got %s", runtime.GOOS)
	}
	tmpHome := t.TempDir()

	cmd := exec.Command(binaryPath(), "config", "path")
	cmd.Dir = t.TempDir()
	cmd.Env = env.Isolated().With("HOME", tmpHome).With("XDG_CONFIG_HOME", "")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "dhost config path failed: %s", out)

	assert.Equal(t, filepath.Join(tmpHome, ".config", "dhost", "config.toml"), strings.TrimSpace(string(out)))
}

func TestConfigPathPrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dhost.toml"), []byte("[log]\nlevel = 'debug'\n"), 0o600))

	cmd := exec.Command(binaryPath(), "config", "path")
	cmd.Dir = dir
	cmd.Env = env.Isolated()
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "dhost config path failed: %s", out)

	resolved, err := filepath.EvalSymlinks(strings.TrimSpace(string(out)))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(dir, "dhost.toml"))
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := writeConfig(t, "[worker]\nruntime = 'vm'\n")

	cmd := exec.Command(binaryPath(), "start")
	cmd.Env = env.Isolated().With(env.Config, path)
	out, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(out), "invalid config")
}

func TestVersionCommand(t *testing.T) {
	out, err := exec.Command(binaryPath(), "version").CombinedOutput()
	require.NoError(t, err, "dhost version failed: %s", out)
	assert.True(t, strings.HasPrefix(string(out), "dhost "), "unexpected output %q", out)
}
