package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a YAML file and environment variables.
// configPath is the directory the file lives in; configName is the file's
// base name without extension (e.g. "matchcore" for "matchcore.yaml").
func LoadConfig(configPath, configName string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("warning: config file not found, using environment variables only")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// CommonConfig holds configuration elements common to the whole process.
type CommonConfig struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	Debug       bool   `mapstructure:"debug"`
}

// DefaultCommonConfig returns default common configuration.
func DefaultCommonConfig() CommonConfig {
	return CommonConfig{
		Environment: "development",
		LogLevel:    "info",
		Debug:       true,
	}
}
