package util

import (
	"fmt"

	"github.com/spf13/viper"
)

// ReadConfig load optional config file into viper. missing file is not an
// error, the engine falls back to viper defaults.
func ReadConfig(configPath string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
