package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type StorageConfig struct {
	Type          string `yaml:"type"`
	Directory     string `yaml:"directory"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
}

type ImageConfig struct {
	ResizeEnabled bool `yaml:"resizeEnabled"`
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	Quality       int  `yaml:"quality"`
}

type ServiceConfig struct {
	Port     int            `yaml:"port"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Image    ImageConfig    `yaml:"image"`
}

// LoadConfig loads configuration from the specified YAML file, applies
// defaults and environment overrides, and validates backend selections.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyDefaults(&config)
	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return &config, nil
}

func applyDefaults(config *ServiceConfig) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Database.Type == "" {
		config.Database.Type = "sqlite"
	}
	if config.Database.ConnectionString == "" && config.Database.Type == "sqlite" {
		config.Database.ConnectionString = "schools.db"
	}
	if config.Storage.Type == "" {
		config.Storage.Type = "filesystem"
	}
	if config.Storage.Directory == "" {
		config.Storage.Directory = "public/schoolImages"
	}
	if config.Storage.RedisAddress == "" {
		config.Storage.RedisAddress = "localhost:6379"
	}
	if config.Image.Width == 0 {
		config.Image.Width = 400
	}
	if config.Image.Height == 0 {
		config.Image.Height = 300
	}
	if config.Image.Quality == 0 {
		config.Image.Quality = 85
	}
}

// applyEnvironmentOverrides lets deployments inject credentials without
// writing them into the config file.
func applyEnvironmentOverrides(config *ServiceConfig) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		config.Database.ConnectionString = databaseURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Storage.RedisAddress = redisAddress
	}
}

func validateConfig(config *ServiceConfig) error {
	switch config.Database.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}
	if config.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string is required for type %s", config.Database.Type)
	}

	switch config.Storage.Type {
	case "filesystem", "redis":
	default:
		return fmt.Errorf("unsupported storage type: %s", config.Storage.Type)
	}

	if config.Image.Quality < 1 || config.Image.Quality > 100 {
		return fmt.Errorf("image quality must be within 1..100, got %d", config.Image.Quality)
	}
	return nil
}
