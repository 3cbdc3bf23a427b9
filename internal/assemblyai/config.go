package assemblyai

import (
	"fmt"
	"time"
)

// Config holds the configuration for the AssemblyAI client
type Config struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration // 0 leaves requests without a client-side deadline
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// GetHeaders returns the headers shared by every request
func (c *Config) GetHeaders() map[string]string {
	return map[string]string{
		"Authorization": c.APIKey,
		"Accept":        "application/json",
	}
}
