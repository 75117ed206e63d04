package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", GetServerConfig(v).Addr)
	assert.Equal(t, "sqlite://rimdash.db", GetStorageConfig(v).URL)
	assert.Zero(t, GetProbeConfig(v).Timeout)
	assert.Equal(t, 5*time.Second, GetMonitorConfig(v).Interval)
	assert.Equal(t, &LogConfig{}, GetLogConfig(v))
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RIMDASH_STORAGE", "memory://")
	t.Setenv("RIMDASH_PROBE_TIMEOUT", "3s")

	v, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "memory://", GetStorageConfig(v).URL)
	assert.Equal(t, 3*time.Second, GetProbeConfig(v).Timeout)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RIMDASH_LISTEN", ":9000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyListen, ":8080", "")
	flags.Duration(KeyMonitorInterval, 0, "")
	require.NoError(t, flags.Parse([]string{"--listen=:7000", "--monitor-interval=-1s"}))

	v, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, ":7000", GetServerConfig(v).Addr)
	assert.Equal(t, 5*time.Second, GetMonitorConfig(v).Interval)
}
