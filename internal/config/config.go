package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID       string
	Region          string
	LogLevel        string
	Environment     string // "production" toggles the Secure cookie flag
	Port            string
	KMSKeyName      string
	WebAPIKeySecret string // Secret Manager secret id holding the Identity Toolkit web API key
}

func New() *Config {
	// best effort for local runs; deployed envs set real vars
	_ = godotenv.Load()

	return &Config{
		ProjectID:       os.Getenv("PROJECTID"),
		Region:          os.Getenv("REGION"),
		LogLevel:        os.Getenv("LOGLEVEL"),
		Environment:     getEnvironment(os.Getenv("ENVIRONMENT")),
		Port:            getPort(os.Getenv("PORT")),
		KMSKeyName:      os.Getenv("KMSKEYNAME"),
		WebAPIKeySecret: os.Getenv("WEBAPIKEYSECRET"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvironment(env string) string {
	switch env {
	case "development", "staging":
		return env
	default:
		return "production"
	}
}

func getPort(port string) string {
	if port == "" {
		return "8080"
	}
	return port
}
