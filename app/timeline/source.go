package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes the upstream timeline endpoint and its credentials.
type SourceConfig struct {
	APIURL      string `yaml:"api_url"`
	BearerToken string `yaml:"bearer_token"`
	PageSize    int    `yaml:"page_size"`
	Timeout     int    `yaml:"timeout"` // seconds
}

// LoadSourceConfig reads and validates the timeline source configuration
// file.
func LoadSourceConfig(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source config: %w", err)
	}

	var source SourceConfig
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse source config YAML: %w", err)
	}

	if source.PageSize == 0 {
		source.PageSize = 200
	}
	if source.Timeout == 0 {
		source.Timeout = 30
	}

	if err := source.validate(); err != nil {
		return nil, fmt.Errorf("invalid source config %s: %w", path, err)
	}

	return &source, nil
}

func (s *SourceConfig) validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if s.BearerToken == "" {
		return fmt.Errorf("bearer_token is required")
	}
	if s.PageSize < 0 {
		return fmt.Errorf("page_size must be non-negative")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
