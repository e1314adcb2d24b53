package env

import (
	"strings"

	"github.com/spf13/viper"
)

type Env struct {
	ConfigFile string
	NoColor    bool
}

var Vars = &Env{}

// Init binds DHOST_* environment variables. Every config key can be
// overridden this way, e.g. DHOST_WORKER_RUNTIME for worker.runtime.
func Init() {
	viper.SetEnvPrefix("DHOST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// NO_COLOR is not prefixed so the common convention keeps working.
	_ = viper.BindEnv("no_color", "NO_COLOR", "DHOST_NO_COLOR")

	Vars = &Env{
		ConfigFile: viper.GetString("config"),
		NoColor:    viper.IsSet("no_color"),
	}
}
