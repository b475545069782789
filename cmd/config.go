package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/etnz/vdatax"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Policy  vdatax.TaxPolicy
	MinYear int
	Log     LogConfig
}

// LoadConfig reads the configuration from the environment, after loading
// envFile if it exists. The production policy is the default of every
// setting.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %q: %w", envFile, err)
		}
	}

	cfg := &Config{
		Policy:  vdatax.IndiaVDA(),
		MinYear: getEnvAsInt("VDATAX_MIN_YEAR", 2009),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", true),
		},
	}
	p := &cfg.Policy
	p.Currency = getEnv("VDATAX_CURRENCY", p.Currency)
	p.AllowLossOffset = getEnvAsBool("VDATAX_ALLOW_LOSS_OFFSET", p.AllowLossOffset)
	p.AllowCarryForward = getEnvAsBool("VDATAX_ALLOW_CARRY_FORWARD", p.AllowCarryForward)

	var err error
	if p.TaxRate, err = getEnvAsRate("VDATAX_TAX_RATE", p.TaxRate); err != nil {
		return nil, &vdatax.ConfigurationError{Field: "VDATAX_TAX_RATE", Err: err}
	}
	if p.Cess, err = getEnvAsRate("VDATAX_CESS", p.Cess); err != nil {
		return nil, &vdatax.ConfigurationError{Field: "VDATAX_CESS", Err: err}
	}
	if value := os.Getenv("VDATAX_MOVE"); value != "" {
		if p.Move, err = vdatax.ParseMoveTreatment(value); err != nil {
			return nil, &vdatax.ConfigurationError{Field: "VDATAX_MOVE", Err: err}
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validator returns a validator bound to the configured currency and year.
func (c *Config) Validator() *vdatax.Validator {
	v := vdatax.NewValidator(c.Policy.Currency)
	v.MinYear = c.MinYear
	return v
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsRate(key string, defaultValue vdatax.Rate) (vdatax.Rate, error) {
	if value := os.Getenv(key); value != "" {
		r, err := vdatax.ParseRate(value)
		if err != nil {
			return r, err
		}
		return r, r.Validate()
	}
	return defaultValue, nil
}
