package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "data/jobcost.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 0.8, cfg.SmartQuote.CoverageTarget, 0.001)
	assert.InDelta(t, 0.4, cfg.SmartQuote.RiskWeights.OverrunRate, 0.001)
	assert.InDelta(t, 0.4, cfg.SmartQuote.RiskWeights.Volatility, 0.001)
	assert.InDelta(t, 0.2, cfg.SmartQuote.RiskWeights.UnquotedRate, 0.001)
	assert.InDelta(t, 0.3, cfg.SmartQuote.TargetMargin, 0.001)
	assert.Equal(t, "", cfg.App.DefaultFY)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/jobcost
smart_quote:
  coverage_target: 0.9
  risk_weights:
    overrun_rate: 0.5
    volatility: 0.3
    unquoted_rate: 0.2
app:
  default_fy: FY26
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/jobcost", cfg.Store.DatabaseURL)
	assert.InDelta(t, 0.9, cfg.SmartQuote.CoverageTarget, 0.001)
	assert.InDelta(t, 0.5, cfg.SmartQuote.RiskWeights.OverrunRate, 0.001)
	assert.Equal(t, "FY26", cfg.App.DefaultFY)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
