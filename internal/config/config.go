package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// env variables prefix, e.g. RIMDASH_STORAGE
	envPrefix = "RIMDASH"

	KeyListen          = "listen"
	KeyStorage         = "storage"
	KeyProbeTimeout    = "probe-timeout"
	KeyMonitorInterval = "monitor-interval"
	KeyVerbose         = "verbose"
	KeyJSONLog         = "json-log"
)

// Load binds flags and environment variables into a fresh viper instance.
// A .env file in the working directory is loaded first when present.
func Load(flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyListen, localListenAddr)
	v.SetDefault(KeyStorage, localStorageURL)
	v.SetDefault(KeyProbeTimeout, defaultProbeTimeout)
	v.SetDefault(KeyMonitorInterval, defaultMonitorInterval)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyJSONLog, false)
}
