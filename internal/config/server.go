package config

import "github.com/spf13/viper"

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Verbose bool
	JSON    bool
}

const localListenAddr = ":8080"

func GetServerConfig(v *viper.Viper) *ServerConfig {
	return &ServerConfig{
		Addr: v.GetString(KeyListen),
	}
}

func GetLogConfig(v *viper.Viper) *LogConfig {
	return &LogConfig{
		Verbose: v.GetBool(KeyVerbose),
		JSON:    v.GetBool(KeyJSONLog),
	}
}
