package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:           "./test.db",
		FeedsDir:         "./feeds",
		MaxFeedItems:     100,
		RetentionSeconds: 604800,
		BatchSize:        200,
		RefreshInterval:  60,
		SourcePath:       "./source.yml",
		PollInterval:     90,
		Port:             "8080",
		BaseUrl:          "https://feeds.example.com",
		UserAgent:        "Test Agent",
		Timezone:         "UTC",
		Debug:            true,
		Version:          "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.MaxFeedItems != 100 {
		t.Errorf("Expected max feed items 100, got %d", cfg.MaxFeedItems)
	}
	if cfg.RetentionSeconds != 604800 {
		t.Errorf("Expected retention 604800, got %d", cfg.RetentionSeconds)
	}
	if cfg.BatchSize != 200 {
		t.Errorf("Expected batch size 200, got %d", cfg.BatchSize)
	}
	if cfg.BaseUrl != "https://feeds.example.com" {
		t.Errorf("Expected base URL 'https://feeds.example.com', got '%s'", cfg.BaseUrl)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected no error for UTC, got: %v", err)
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}
