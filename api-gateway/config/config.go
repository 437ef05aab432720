package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service. Instances carries
// one or more base URLs; the proxy round-robins across them.
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration from the environment
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"company": {
				Name:        "company-service",
				Instances:   getInstances("COMPANY_SERVICE_URLS", "http://localhost:8084"),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"payment": {
				Name:        "payment-service",
				Instances:   getInstances("PAYMENT_SERVICE_URLS", "http://localhost:8083"),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

// getInstances reads a comma separated list of base URLs
func getInstances(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	instances := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			instances = append(instances, strings.TrimSuffix(trimmed, "/"))
		}
	}
	return instances
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
