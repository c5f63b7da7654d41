package engine

import (
	"time"

	"github.com/spf13/viper"
)

// Config static engine configuration, supplied once at construction time.
type Config struct {
	CacheTTL        time.Duration
	CacheMaxEntries int
	// HeuristicMaxSpeed meter/second conversion constant for the a*
	// heuristic. zero means use the per-vehicle maximum permitted speed.
	HeuristicMaxSpeed    float64
	DefaultAvoidTolls    bool
	DefaultAvoidHighways bool
	MaxAlternativeRoutes int
}

// NewConfigFromViper build a Config from viper keys, falling back to sane
// defaults. pair with util.ReadConfig to source them from a config file.
func NewConfigFromViper() Config {
	viper.SetDefault("ROUTE_CACHE_TTL", "5m")
	viper.SetDefault("ROUTE_CACHE_MAX_ENTRIES", 10000)
	viper.SetDefault("HEURISTIC_MAX_SPEED", 0.0)
	viper.SetDefault("DEFAULT_AVOID_TOLLS", false)
	viper.SetDefault("DEFAULT_AVOID_HIGHWAYS", false)
	viper.SetDefault("MAX_ALTERNATIVE_ROUTES", 2)

	return Config{
		CacheTTL:             viper.GetDuration("ROUTE_CACHE_TTL"),
		CacheMaxEntries:      viper.GetInt("ROUTE_CACHE_MAX_ENTRIES"),
		HeuristicMaxSpeed:    viper.GetFloat64("HEURISTIC_MAX_SPEED"),
		DefaultAvoidTolls:    viper.GetBool("DEFAULT_AVOID_TOLLS"),
		DefaultAvoidHighways: viper.GetBool("DEFAULT_AVOID_HIGHWAYS"),
		MaxAlternativeRoutes: viper.GetInt("MAX_ALTERNATIVE_ROUTES"),
	}
}
