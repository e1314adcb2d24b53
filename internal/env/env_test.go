package env

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitReadsPrefixedVariables(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("DHOST_CONFIG", "/tmp/custom.toml")
	t.Setenv("DHOST_WORKER_RUNTIME", "docker")
	t.Setenv("NO_COLOR", "1")

	Init()

	assert.Equal(t, "/tmp/custom.toml", Vars.ConfigFile)
	assert.True(t, Vars.NoColor)
	assert.Equal(t, "docker", viper.GetString("worker.runtime"))
}
