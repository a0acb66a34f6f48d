package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
// This is useful when the configuration file extension is unknown or variable
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type specification
// Use this when you need to force a specific configuration format (e.g., "yaml", "json")
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
// This is the preferred method for loading environment-specific configurations
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// It implements a layered approach to configuration:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// The ATM owns stdout, so config diagnostics go nowhere until the logger exists.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()

	config, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	initialDeposit, err := decimal.NewFromString(v.GetString("SOAK_INITIAL_DEPOSIT"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: SOAK_INITIAL_DEPOSIT: %w", err)
	}

	return &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Identifier: IdentifierConfig{
			UserIDLength:    v.GetInt("USER_ID_LENGTH"),
			AccountIDLength: v.GetInt("ACCOUNT_ID_LENGTH"),
			MaxAttempts:     v.GetInt("ID_MAX_ATTEMPTS"),
		},
		Credential: CredentialConfig{
			Algorithm:  v.GetString("CREDENTIAL_ALGORITHM"),
			BcryptCost: v.GetInt("CREDENTIAL_BCRYPT_COST"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Soak: SoakConfig{
			Users:          v.GetInt("SOAK_USERS"),
			Transfers:      v.GetInt("SOAK_TRANSFERS"),
			InitialDeposit: initialDeposit,
		},
	}, nil
}

// setDefaults initializes configuration with sensible default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "Bank of Drausin")

	// Logging defaults - 'info' provides good balance of information vs noise
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	// 6-digit user ids and 10-digit account ids
	v.SetDefault("USER_ID_LENGTH", 6)
	v.SetDefault("ACCOUNT_ID_LENGTH", 10)
	v.SetDefault("ID_MAX_ATTEMPTS", 1000)

	v.SetDefault("CREDENTIAL_ALGORITHM", "sha256")
	v.SetDefault("CREDENTIAL_BCRYPT_COST", 10)

	v.SetDefault("WORKER_POOL_SIZE", 10)

	v.SetDefault("SOAK_USERS", 50)
	v.SetDefault("SOAK_TRANSFERS", 5000)
	v.SetDefault("SOAK_INITIAL_DEPOSIT", "1000.00")
}
