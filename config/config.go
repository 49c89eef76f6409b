package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// S3 image storage
	S3Bucket   string
	S3Region   string
	S3Endpoint string

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (RECIPE_ prefix) with an
// optional recipe-api.yaml alongside the binary.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("recipe-api")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	cfg := &Config{
		ServerPort:    v.GetString("server.port"),
		ServerHost:    v.GetString("server.host"),
		DBHost:        v.GetString("db.host"),
		DBPort:        v.GetString("db.port"),
		DBUser:        v.GetString("db.user"),
		DBPassword:    v.GetString("db.password"),
		DBName:        v.GetString("db.name"),
		DBSSLMode:     v.GetString("db.ssl_mode"),
		RedisURL:      v.GetString("redis.url"),
		RedisHost:     v.GetString("redis.host"),
		RedisPort:     v.GetString("redis.port"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		JWTSecret:     v.GetString("jwt.secret"),
		S3Bucket:      v.GetString("s3.bucket"),
		S3Region:      v.GetString("s3.region"),
		S3Endpoint:    v.GetString("s3.endpoint"),
		LogLevel:      v.GetString("log.level"),
		LogJSON:       v.GetBool("log.json"),
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
