package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration for the current environment. A missing
// config file is fine: every setting has a default, and LV_* environment
// variables override both.
func LoadConfig() (*Config, error) {
	// .env is optional; a missing one just means plain process env
	_ = loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for all configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.dataDir", defaultDataDir())
	v.SetDefault("store.bcryptCost", 10)
	v.SetDefault("store.defaultCurrency", "USD")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("export.backupFile", "financial_vault_backup.sqlite")
	v.SetDefault("export.csvFile", "financial_ledger_export.csv")
}

// defaultDataDir places the store under the user config dir, falling back to
// a local directory when the home is unavailable
func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return base + string(os.PathSeparator) + "ledgervault"
	}
	return "./ledgervault-data"
}

// getEnvironment determines the environment based on LV_ENV
func getEnvironment() string {
	env := os.Getenv("LV_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}
