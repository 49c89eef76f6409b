package config

import "fmt"

// Validate checks that every setting the server cannot run without is set.
func Validate(cfg *Config) error {
	if cfg.DBUser == "" {
		return fmt.Errorf("RECIPE_DB_USER is required")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("RECIPE_DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("RECIPE_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return fmt.Errorf("RECIPE_JWT_SECRET must be at least 16 characters")
	}
	switch cfg.DBSSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("RECIPE_DB_SSL_MODE %q is not a valid sslmode", cfg.DBSSLMode)
	}
	return nil
}
