package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config directory.
	AppName = "artworkscrawler"

	configPathEnv  = "ARTWORKS_CRAWLER_CONFIG"
	sinkKindEnv    = "ARTWORKS_SINK"
	handlesEnv     = "ARTWORKS_HANDLES"
	databaseDSNEnv = "DATABASE_DSN"

	s3EndpointEnv  = "AWS_S3_ENDPOINT_URL"
	s3AccessKeyEnv = "AWS_ACCESS_KEY_ID"
	s3SecretKeyEnv = "AWS_SECRET_ACCESS_KEY"
	s3RegionEnv    = "AWS_S3_REGION_NAME"
	s3BucketEnv    = "AWS_STORAGE_BUCKET_NAME"

	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"

	defaultPacing         = 1500 * time.Millisecond
	defaultRequestTimeout = 20 * time.Second
	defaultArtifactName   = "behance_artworks.json"
)

// SinkKind selects the artifact destination.
type SinkKind string

const (
	SinkFile        SinkKind = "file"
	SinkObjectStore SinkKind = "s3"
	SinkDatabase    SinkKind = "sql"
)

// Config holds high-level settings required across the application.
type Config struct {
	Site          SiteConfig         `yaml:"site"`
	Crawl         CrawlConfig        `yaml:"crawl"`
	Sink          SinkConfig         `yaml:"sink"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
	Report        ReportConfig       `yaml:"report"`
}

// SiteConfig describes the crawled site and its extraction strategy.
type SiteConfig struct {
	Name             string `yaml:"name"`
	Scanner          string `yaml:"scanner"`
	Origin           string `yaml:"origin"`
	ProfileURLFormat string `yaml:"profileUrlFormat"`
	ProjectSelector  string `yaml:"projectSelector"`
}

// CrawlConfig lists the handles and the request pacing.
type CrawlConfig struct {
	Handles        []string      `yaml:"handles"`
	Pacing         time.Duration `yaml:"pacing"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	UserAgent      string        `yaml:"userAgent"`
}

// SinkConfig picks one destination and carries the parameters of each.
type SinkConfig struct {
	Kind        SinkKind          `yaml:"kind"`
	File        FileSinkConfig    `yaml:"file"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	Database    DatabaseConfig    `yaml:"database"`
}

// FileSinkConfig names the local artifact path.
type FileSinkConfig struct {
	Path string `yaml:"path"`
}

// ObjectStoreConfig describes an S3-compatible bucket (Backblaze B2, etc.).
type ObjectStoreConfig struct {
	EndpointURL string `yaml:"endpointUrl"`
	AccessKey   string `yaml:"accessKey"`
	SecretKey   string `yaml:"secretKey"`
	Region      string `yaml:"region"`
	Bucket      string `yaml:"bucket"`
	Key         string `yaml:"key"`
}

// DatabaseConfig describes the SQL artifact table connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Name   string `yaml:"name"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIBase  string `yaml:"apiBase"`
}

// Enabled reports whether both token and chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LoggingConfig sets the slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ReportConfig optionally writes a Markdown run report.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. The file comes from path, then ARTWORKS_CRAWLER_CONFIG, then the
// XDG config dirs; with none of them the defaults are used.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		path = discover()
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// discover looks for artworkscrawler/config.yaml in the XDG config dirs.
func discover() string {
	path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return ""
	}
	return path
}

// Validate rejects settings the crawler cannot run with.
func (c Config) Validate() error {
	var errs []error

	switch c.Sink.Kind {
	case SinkFile:
		if strings.TrimSpace(c.Sink.File.Path) == "" {
			errs = append(errs, errors.New("sink.file.path is required for the file sink"))
		}
	case SinkObjectStore:
		o := c.Sink.ObjectStore
		if o.EndpointURL == "" || o.Bucket == "" || o.AccessKey == "" || o.SecretKey == "" {
			errs = append(errs, errors.New("sink.objectStore requires endpointUrl, bucket, accessKey and secretKey"))
		}
	case SinkDatabase:
		if c.Sink.Database.Driver != "sqlite" && c.Sink.Database.Driver != "postgres" {
			errs = append(errs, fmt.Errorf("sink.database.driver %q must be sqlite or postgres", c.Sink.Database.Driver))
		}
		if c.Sink.Database.DSN == "" {
			errs = append(errs, errors.New("sink.database.dsn is required for the sql sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sink kind %q", c.Sink.Kind))
	}

	if c.Crawl.Pacing < 0 {
		errs = append(errs, errors.New("crawl.pacing must not be negative"))
	}
	if c.Crawl.RequestTimeout <= 0 {
		errs = append(errs, errors.New("crawl.requestTimeout must be positive"))
	}
	if c.Site.Scanner == "" {
		errs = append(errs, errors.New("site.scanner is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(sinkKindEnv); v != "" {
		c.Sink.Kind = SinkKind(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv(handlesEnv); v != "" {
		c.Crawl.Handles = SplitHandles(v)
	}

	if v := os.Getenv(s3EndpointEnv); v != "" {
		c.Sink.ObjectStore.EndpointURL = v
	}
	if v := os.Getenv(s3AccessKeyEnv); v != "" {
		c.Sink.ObjectStore.AccessKey = v
	}
	if v := os.Getenv(s3SecretKeyEnv); v != "" {
		c.Sink.ObjectStore.SecretKey = v
	}
	if v := os.Getenv(s3RegionEnv); v != "" {
		c.Sink.ObjectStore.Region = v
	}
	if v := os.Getenv(s3BucketEnv); v != "" {
		c.Sink.ObjectStore.Bucket = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Sink.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

// SplitHandles parses a comma separated handle list, dropping blanks.
func SplitHandles(raw string) []string {
	parts := strings.Split(raw, ",")
	handles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			handles = append(handles, p)
		}
	}
	return handles
}

func mergeConfig(base, override Config) Config {
	if override.Site.Name != "" {
		base.Site.Name = override.Site.Name
	}
	if override.Site.Scanner != "" {
		base.Site.Scanner = override.Site.Scanner
	}
	if override.Site.Origin != "" {
		base.Site.Origin = override.Site.Origin
	}
	if override.Site.ProfileURLFormat != "" {
		base.Site.ProfileURLFormat = override.Site.ProfileURLFormat
	}
	if override.Site.ProjectSelector != "" {
		base.Site.ProjectSelector = override.Site.ProjectSelector
	}

	if override.Crawl.Handles != nil {
		base.Crawl.Handles = override.Crawl.Handles
	}
	if override.Crawl.Pacing != 0 {
		base.Crawl.Pacing = override.Crawl.Pacing
	}
	if override.Crawl.RequestTimeout != 0 {
		base.Crawl.RequestTimeout = override.Crawl.RequestTimeout
	}
	if override.Crawl.UserAgent != "" {
		base.Crawl.UserAgent = override.Crawl.UserAgent
	}

	if override.Sink.Kind != "" {
		base.Sink.Kind = override.Sink.Kind
	}
	if override.Sink.File.Path != "" {
		base.Sink.File.Path = override.Sink.File.Path
	}
	o := override.Sink.ObjectStore
	if o.EndpointURL != "" {
		base.Sink.ObjectStore.EndpointURL = o.EndpointURL
	}
	if o.AccessKey != "" {
		base.Sink.ObjectStore.AccessKey = o.AccessKey
	}
	if o.SecretKey != "" {
		base.Sink.ObjectStore.SecretKey = o.SecretKey
	}
	if o.Region != "" {
		base.Sink.ObjectStore.Region = o.Region
	}
	if o.Bucket != "" {
		base.Sink.ObjectStore.Bucket = o.Bucket
	}
	if o.Key != "" {
		base.Sink.ObjectStore.Key = o.Key
	}
	if override.Sink.Database.Driver != "" {
		base.Sink.Database.Driver = override.Sink.Database.Driver
	}
	if override.Sink.Database.DSN != "" {
		base.Sink.Database.DSN = override.Sink.Database.DSN
	}
	if override.Sink.Database.Name != "" {
		base.Sink.Database.Name = override.Sink.Database.Name
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIBase != "" {
		base.Notifications.Telegram.APIBase = override.Notifications.Telegram.APIBase
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Report.Path != "" {
		base.Report.Path = override.Report.Path
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:             "behance",
			Scanner:          "behance",
			Origin:           "https://www.behance.net",
			ProfileURLFormat: "https://www.behance.net/%s",
			ProjectSelector:  "a.ProjectCoverNeue-link",
		},
		Crawl: CrawlConfig{
			Handles: []string{
				"ashthorp", "gydiant", "alexeyegorov", "vasjenkatro",
				"muratpak", "travisleighmartin", "beeple", "gavinshapiro",
				"antonioescalona", "malikafavre", "leandroassis",
				"ignasi", "foreal", "markusmagnusson",
			},
			Pacing:         defaultPacing,
			RequestTimeout: defaultRequestTimeout,
		},
		Sink: SinkConfig{
			Kind: SinkFile,
			File: FileSinkConfig{Path: defaultArtifactName},
			ObjectStore: ObjectStoreConfig{
				Key: defaultArtifactName,
			},
			Database: DatabaseConfig{
				Driver: "sqlite",
				Name:   defaultArtifactName,
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
