package config_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/cmd/tracker/config"
	"github.com/MichalMitros/market-tracker/internal/aggregation"
	"github.com/MichalMitros/market-tracker/internal/backoff"
	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitParseDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, env.Parse(&cfg), "shouldn't return any error")

	assert.Equal(t, config.DriverPostgres, cfg.StorageDriver, "should use postgres by default")
	assert.Equal(t, 5, cfg.Registry.DefaultPriority, "should set default priority")
	assert.NoError(t, cfg.Registry.Validate(), "default priority should be valid")
	assert.Equal(t, 5, cfg.Scheduler.ErrorThreshold, "should set error threshold")
	assert.Equal(t, backoff.Policy{
		Base:            time.Minute,
		Cap:             24 * time.Hour,
		RefreshInterval: 72 * time.Hour,
	}, cfg.Scheduler.Policy(), "should set backoff policy")

	engineCfg, err := cfg.Aggregation.EngineConfig()
	require.NoError(t, err, "default weights should be valid")
	assert.Equal(t, aggregation.DefaultConfig(), engineCfg, "should match default engine config")
}

func TestUnitParse(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TREND_WEIGHTS", "0.5,0.5")
	t.Setenv("MARGIN_WEIGHTS", "1,0,0,0")
	t.Setenv("TREND_WINDOW", "48h")
	t.Setenv("SEASONAL_KEYWORDS", "summer:Beach | pool,easter:egg|bunny")
	t.Setenv("SEASONAL_CATEGORIES", "easter:c-42")

	var cfg config.Config
	require.NoError(t, env.Parse(&cfg), "shouldn't return any error")

	engineCfg, err := cfg.Aggregation.EngineConfig()
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, config.DriverMemory, cfg.StorageDriver, "should set storage driver")
	assert.Equal(t, aggregation.TrendWeights{Velocity: 0.5, Stability: 0.5}, engineCfg.Trend, "should set trend weights")
	assert.Equal(t, aggregation.MarginWeights{Rating: 1}, engineCfg.Margin, "should set margin weights")
	assert.Equal(t, 48*time.Hour, engineCfg.TrendWindow, "should set trend window")
	assert.Equal(t, aggregation.SeasonRule{Keywords: []string{"beach", "pool"}, Categories: []string{}},
		engineCfg.Seasons["summer"], "should replace default season")
	assert.Equal(t, aggregation.SeasonRule{Keywords: []string{"egg", "bunny"}, Categories: []string{"c-42"}},
		engineCfg.Seasons["easter"], "should add new season")
	assert.Equal(t, aggregation.DefaultSeasons()["winter"], engineCfg.Seasons["winter"], "should keep other defaults")
}

func TestUnitEngineConfigInvalid(t *testing.T) {
	tests := map[string]struct {
		cfg     config.Aggregation
		wantErr string
	}{
		"trend arity": {
			cfg:     config.Aggregation{TrendWeights: []float64{1}, MarginWeights: []float64{1, 1, 1, 1}, TrendWindow: time.Hour},
			wantErr: "invalid trend weights",
		},
		"negative margin": {
			cfg:     config.Aggregation{TrendWeights: []float64{1, 1}, MarginWeights: []float64{1, -1, 1, 1}, TrendWindow: time.Hour},
			wantErr: "invalid margin weights",
		},
		"trend window": {
			cfg:     config.Aggregation{TrendWeights: []float64{1, 1}, MarginWeights: []float64{1, 1, 1, 1}},
			wantErr: "invalid trend window",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tt.cfg.EngineConfig()

			assert.ErrorContains(t, err, tt.wantErr, "should reject invalid configuration")
		})
	}
}

func TestUnitRegistryValidate(t *testing.T) {
	tests := map[string]struct {
		priority string
		wantErr  bool
	}{
		"highest":  {priority: "1"},
		"lowest":   {priority: "10"},
		"zero":     {priority: "0", wantErr: true},
		"negative": {priority: "-3", wantErr: true},
		"too low":  {priority: "11", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PRIORITY_DEFAULT", tt.priority)

			var cfg config.Config
			require.NoError(t, env.Parse(&cfg), "shouldn't return any error")

			err := cfg.Registry.Validate()

			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid default priority", "should reject priority")
			} else {
				assert.NoError(t, err, "should accept priority")
			}
		})
	}
}
