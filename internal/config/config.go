package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type LifecycleConfig struct {
	// Profile selects the order lifecycle variant: four_state or
	// five_state.
	Profile string `yaml:"profile"`
}

type AuthConfig struct {
	Tokens []TokenConfig `yaml:"tokens"`
}

// TokenConfig maps a static bearer token to an operator. Deployment
// bootstrap only; real installations plug their own TokenVerifier.
type TokenConfig struct {
	Token       string `yaml:"token"`
	ActorID     int    `yaml:"actor_id"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Lifecycle.Profile == "" {
		cfg.Lifecycle.Profile = string(domain.ProfileFourState)
	}
	if !domain.LifecycleProfile(cfg.Lifecycle.Profile).Valid() {
		return nil, fmt.Errorf("invalid lifecycle profile: %s", cfg.Lifecycle.Profile)
	}

	return &cfg, nil
}
