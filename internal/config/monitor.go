package config

import (
	"time"

	"github.com/spf13/viper"
)

type MonitorConfig struct {
	Interval time.Duration
}

const defaultMonitorInterval = 5 * time.Second

func GetMonitorConfig(v *viper.Viper) *MonitorConfig {
	return &MonitorConfig{
		Interval: getMonitorInterval(v),
	}
}

func getMonitorInterval(v *viper.Viper) time.Duration {
	d := v.GetDuration(KeyMonitorInterval)
	if d <= 0 {
		return defaultMonitorInterval
	}
	return d
}
