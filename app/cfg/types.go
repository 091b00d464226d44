package cfg

type Cfg struct {
	// Storage configuration
	DBPath   string
	FeedsDir string

	// Feed materialization configuration
	MaxFeedItems     int
	RetentionSeconds int
	BatchSize        int
	RefreshInterval  int

	// Timeline ingestion configuration
	SourcePath   string
	PollInterval int

	// HTTP configuration
	Port    string
	BaseUrl string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
