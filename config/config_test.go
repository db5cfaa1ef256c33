package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/report"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("workers: 4\n"))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "switched", cfg.Network.Kind)
	assert.Equal(t, "tree", cfg.Allreduce)
	assert.True(t, cfg.UseColor())

	dir, err := cfg.Directory()
	require.NoError(t, err)
	assert.Equal(t, 10, dir.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.yml")
	contents := `
workers: 2
root: 1
seed: 99
barrier: false
locations: [Oslo, Lima, Perth]
network:
  kind: random
  latency: 0.2
allreduce: stream
reduce: naive
color: false
log:
  level: debug
  output: none
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Root)
	assert.False(t, cfg.UseColor())
	assert.Equal(t, "debug", cfg.Log.Level)

	fc, err := cfg.Forecast(report.Nop{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, fc.Directory.Len())
	assert.Equal(t, "Lima", fc.Directory.Name(1))
	assert.False(t, fc.Barrier)
	assert.Equal(t, int64(99), fc.Seed)
	assert.IsType(t, allreduce.StreamAllreducer{}, fc.Allreducer)
	assert.Equal(t, 0.2, fc.Network.Latency)
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]string{
		"workers":   "workers: 0",
		"root":      "workers: 2\nroot: 2",
		"locations": "locations: [A, A]",
		"cost":      "observation_cost: -1",
		"network":   "network: {kind: token-ring}",
		"latency":   "network: {kind: random, latency: -1}",
		"rate":      "network: {kind: switched, rate: 0}",
		"root_rate": "network: {kind: switched, root_rate: -5}",
		"inf_cost":  "observation_cost: .inf",
		"inf_lat":   "network: {kind: random, latency: .inf}",
		"inf_rate":  "network: {kind: switched, rate: .inf}",
		"nan_root":  "network: {kind: switched, root_rate: .nan}",
		"allreduce": "allreduce: gossip",
		"reduce":    "reduce: stream",
		"yaml":      "workers: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
