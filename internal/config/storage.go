package config

import (
	"time"

	"github.com/spf13/viper"
)

type StorageConfig struct {
	// URL selects the backend: memory://, redis://host:port/db, sqlite://path
	URL string
}

type ProbeConfig struct {
	// Timeout of a single liveness probe. Zero keeps the transport default.
	Timeout time.Duration
}

const (
	// variables for local env
	localStorageURL     = "sqlite://rimdash.db"
	defaultProbeTimeout = time.Duration(0)
)

func GetStorageConfig(v *viper.Viper) *StorageConfig {
	return &StorageConfig{
		URL: v.GetString(KeyStorage),
	}
}

func GetProbeConfig(v *viper.Viper) *ProbeConfig {
	return &ProbeConfig{
		Timeout: v.GetDuration(KeyProbeTimeout),
	}
}
