package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./tweetfeed.db" description:"Path to the SQLite database file"`
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory where feed documents are written"`

	// Feed materialization configuration
	MaxFeedItems     int `long:"max-feed-items" env:"MAX_FEED_ITEMS" default:"100" description:"Maximum number of items kept in a feed document"`
	RetentionSeconds int `long:"retention-seconds" env:"RETENTION_SECONDS" default:"604800" description:"Delete published statuses older than this many seconds"`
	BatchSize        int `long:"batch-size" env:"BATCH_SIZE" default:"200" description:"Maximum unpublished statuses processed per drain pass"`
	RefreshInterval  int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"60" description:"Materialization interval in seconds"`

	// Timeline ingestion configuration
	SourcePath   string `long:"source-path" env:"SOURCE_PATH" default:"./source.yml" description:"Path to the timeline source configuration file"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"90" description:"Timeline poll interval in seconds"`

	// HTTP configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://feeds.example.com)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"TweetFeed/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		FeedsDir:         raw.FeedsDir,
		MaxFeedItems:     raw.MaxFeedItems,
		RetentionSeconds: raw.RetentionSeconds,
		BatchSize:        raw.BatchSize,
		RefreshInterval:  raw.RefreshInterval,
		SourcePath:       raw.SourcePath,
		PollInterval:     raw.PollInterval,
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
