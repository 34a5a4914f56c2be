package config

// Config holds all configuration for the application
type Config struct {
	Environment string       `mapstructure:"environment"`
	Store       StoreConfig  `mapstructure:"store"`
	Logger      LoggerConfig `mapstructure:"logger"`
	Export      ExportConfig `mapstructure:"export"`
}

// StoreConfig contains embedded store settings
type StoreConfig struct {
	// DataDir is where the backing key-value files live
	DataDir string `mapstructure:"dataDir"`
	// BcryptCost is the work factor for credential and PIN hashes
	BcryptCost int `mapstructure:"bcryptCost"`
	// DefaultCurrency is assigned to accounts registered without one
	DefaultCurrency string `mapstructure:"defaultCurrency"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExportConfig contains default filenames for user-initiated exports
type ExportConfig struct {
	BackupFile string `mapstructure:"backupFile"`
	CSVFile    string `mapstructure:"csvFile"`
}
