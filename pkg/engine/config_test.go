package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lintang-b-s/routex/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromViperDefaults(t *testing.T) {
	viper.Reset()

	cfg := NewConfigFromViper()
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10000, cfg.CacheMaxEntries)
	assert.Zero(t, cfg.HeuristicMaxSpeed)
	assert.False(t, cfg.DefaultAvoidTolls)
	assert.Equal(t, 2, cfg.MaxAlternativeRoutes)
}

func TestReadConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	content := "ROUTE_CACHE_TTL: 30s\nDEFAULT_AVOID_TOLLS: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	require.NoError(t, util.ReadConfig(dir))

	cfg := NewConfigFromViper()
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.DefaultAvoidTolls)

	// missing config file is not an error, defaults still apply
	viper.Reset()
	require.NoError(t, util.ReadConfig(t.TempDir()))
	assert.Equal(t, 5*time.Minute, NewConfigFromViper().CacheTTL)
}
