package auth

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// AuthConfig holds session-token configuration for the application
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret" yaml:"jwt_secret" json:"jwt_secret"`
	Issuer            string `mapstructure:"issuer" yaml:"issuer" json:"issuer"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" yaml:"session_ttl_minutes" json:"session_ttl_minutes"`
	CSRFTTLMinutes    int    `mapstructure:"csrf_ttl_minutes" yaml:"csrf_ttl_minutes" json:"csrf_ttl_minutes"`
}

// LoadAuthConfig loads and validates session-token configuration
func LoadAuthConfig(configPath string) (*AuthConfig, error) {
	// Create a new viper instance for auth config
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("auth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setAuthDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults and environment variables
		} else {
			return nil, fmt.Errorf("error reading auth config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var config AuthConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling auth config: %w", err)
	}

	// Secrets come from the environment in deployed setups
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.JWTSecret = jwtSecret
	}

	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("auth config validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfig validates the session-token configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("session TTL must be at least one minute")
	}
	if c.CSRFTTLMinutes < 1 {
		return fmt.Errorf("CSRF TTL must be at least one minute")
	}
	return nil
}

// setAuthDefaults sets default values for auth configuration
func setAuthDefaults(v *viper.Viper) {
	v.SetDefault("issuer", "volunteer-rota-backend")
	v.SetDefault("session_ttl_minutes", 60)
	v.SetDefault("csrf_ttl_minutes", 120)
	// No default JWT secret - must be provided via config file or environment
}
