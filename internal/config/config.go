// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the ledger core and its binaries,
// including identifier issuance, PIN hashing, logging and the transfer worker pool.
package config

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a subsystem's configuration and is validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Identifier  IdentifierConfig
	Credential  CredentialConfig
	WorkerPool  WorkerPoolConfig
	Soak        SoakConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string // Bank name shown by the ATM
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// IdentifierConfig controls user and account id issuance
type IdentifierConfig struct {
	UserIDLength    int
	AccountIDLength int
	MaxAttempts     int // Collisions tolerated before giving up on a namespace
}

// CredentialConfig selects the PIN hashing algorithm
type CredentialConfig struct {
	Algorithm  string
	BcryptCost int
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// SoakConfig drives cmd/ledger_soak
type SoakConfig struct {
	Users          int
	Transfers      int
	InitialDeposit decimal.Decimal
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	if c.Application.Name == "" {
		validationErrors = append(validationErrors, "APP_NAME is required")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		validationErrors = append(validationErrors, "LOG_FORMAT must be json or text")
	}

	// Validate Identifier config
	if c.Identifier.UserIDLength <= 0 || c.Identifier.UserIDLength > 18 {
		validationErrors = append(validationErrors, "USER_ID_LENGTH must be between 1 and 18")
	}
	if c.Identifier.AccountIDLength <= 0 || c.Identifier.AccountIDLength > 18 {
		validationErrors = append(validationErrors, "ACCOUNT_ID_LENGTH must be between 1 and 18")
	}
	if c.Identifier.MaxAttempts <= 0 {
		validationErrors = append(validationErrors, "ID_MAX_ATTEMPTS must be greater than 0")
	}

	// Validate Credential config
	if c.Credential.Algorithm == "" {
		validationErrors = append(validationErrors, "CREDENTIAL_ALGORITHM is required")
	}
	if c.Credential.BcryptCost <= 0 {
		validationErrors = append(validationErrors, "CREDENTIAL_BCRYPT_COST must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Soak config
	if c.Soak.Users < 2 {
		validationErrors = append(validationErrors, "SOAK_USERS must be at least 2")
	}
	if c.Soak.Transfers < 0 {
		validationErrors = append(validationErrors, "SOAK_TRANSFERS must not be negative")
	}
	if !c.Soak.InitialDeposit.IsPositive() {
		validationErrors = append(validationErrors, "SOAK_INITIAL_DEPOSIT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
