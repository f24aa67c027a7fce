package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "America/Sao_Paulo"

	configPathEnv     = "NEWS_COLLETECTOR_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "BOT_TOKEN"
	telegramChatIDEnv = "CHAT_ID"
	summarizerKeyEnv  = "SUMMARIZER_API_KEY"
	podcastClientEnv  = "PODCAST_CLIENT_ID"
	podcastSecretEnv  = "PODCAST_CLIENT_SECRET"
)

// Config holds every setting the pipeline reads; loaded once at process
// start and immutable during a run.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Paths         PathsConfig        `yaml:"paths"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Resources     ResourceConfig     `yaml:"resources"`
	TTS           TTSConfig          `yaml:"tts"`
	Summarizer    SummarizerConfig   `yaml:"summarizer"`
	Notifications NotificationConfig `yaml:"notifications"`
	Podcast       PodcastConfig      `yaml:"podcast"`
	Database      DatabaseConfig     `yaml:"database"`
	Feeds         []FeedConfig       `yaml:"feeds"`
}

// LoggingConfig selects handler level and format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PathsConfig roots all pipeline output under a data directory.
type PathsConfig struct {
	DataDir   string `yaml:"dataDir"`
	AudioDir  string `yaml:"audioDir"`
	OutputDir string `yaml:"outputDir"`
}

// SchedulerConfig defines when and in which timezone runs execute.
type SchedulerConfig struct {
	IntervalHours int            `yaml:"intervalHours"`
	RunOnce       bool           `yaml:"runOnce"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Interval converts the configured hours into a ticker period.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IntervalHours) * time.Hour
}

// Location resolves the configured timezone to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PipelineConfig tunes batch behavior.
type PipelineConfig struct {
	MaxNews             int     `yaml:"maxNews"`
	MaxAttempts         int     `yaml:"maxAttempts"`
	BaseCooldownSeconds int     `yaml:"baseCooldownSeconds"`
	CooldownFactor      float64 `yaml:"cooldownFactor"`
	RetentionDays       int     `yaml:"retentionDays"`
}

// BaseCooldown is the floor for backoff and post-synthesis waits.
func (p PipelineConfig) BaseCooldown() time.Duration {
	return time.Duration(p.BaseCooldownSeconds) * time.Second
}

// ResourceConfig sets the governor's thresholds for constrained hosts.
type ResourceConfig struct {
	MemoryPercentMax   float64 `yaml:"memoryPercentMax"`
	CPUPercentMax      float64 `yaml:"cpuPercentMax"`
	CooldownSeconds    int     `yaml:"cooldownSeconds"`
	SettleDelaySeconds int     `yaml:"settleDelaySeconds"`
	MemoryLimitMB      int64   `yaml:"memoryLimitMb"`
}

// Cooldown is how long the governor sleeps when thresholds are exceeded.
func (r ResourceConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownSeconds) * time.Second
}

// SettleDelay is the pause after each cleanup so freed memory is
// actually returned before the next heavy operation starts.
func (r ResourceConfig) SettleDelay() time.Duration {
	return time.Duration(r.SettleDelaySeconds) * time.Second
}

// TTSConfig selects the speech engine and its per-language voices.
type TTSConfig struct {
	Engine    string            `yaml:"engine"`
	PiperPath string            `yaml:"piperPath"`
	VoicesDir string            `yaml:"voicesDir"`
	Command   []string          `yaml:"command"`
	Voices    map[string]string `yaml:"voices"`
}

// Voice returns the configured voice for a language, falling back to the
// Portuguese default the way the original speaker map did.
func (t TTSConfig) Voice(language string) string {
	if v, ok := t.Voices[language]; ok {
		return v
	}
	if v, ok := t.Voices["pt"]; ok {
		return v
	}
	return ""
}

// SummarizerConfig points at an OpenAI-compatible chat endpoint. An empty
// APIKey selects the local extractive summarizer.
type SummarizerConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires the bot credentials.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// PodcastConfig describes the episode upload target and the metadata of
// the republished feed.
type PodcastConfig struct {
	TokenURL     string `yaml:"tokenUrl"`
	UploadURL    string `yaml:"uploadUrl"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	SiteURL      string `yaml:"siteUrl"`
	Author       string `yaml:"author"`
}

// DatabaseConfig describes the optional history store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// FeedConfig is one RSS source with its narration language.
type FeedConfig struct {
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
}

// Load reads YAML configuration (if present) over defaults and applies
// environment overrides for credentials.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(summarizerKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(podcastClientEnv); v != "" {
		c.Podcast.ClientID = v
	}

	if v := os.Getenv(podcastSecretEnv); v != "" {
		c.Podcast.ClientSecret = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Paths: PathsConfig{
			DataDir:   "./data",
			AudioDir:  "./data/audio",
			OutputDir: "./data/feeds",
		},
		Scheduler: SchedulerConfig{
			IntervalHours: 24,
			RunOnce:       true,
			Timezone:      defaultTimezone,
			location:      tz,
		},
		Pipeline: PipelineConfig{
			MaxNews:             10,
			MaxAttempts:         3,
			BaseCooldownSeconds: 5,
			CooldownFactor:      0.5,
			RetentionDays:       2,
		},
		Resources: ResourceConfig{
			MemoryPercentMax:   85,
			CPUPercentMax:      90,
			CooldownSeconds:    30,
			SettleDelaySeconds: 5,
		},
		TTS: TTSConfig{
			Engine:    "piper",
			PiperPath: "./piper/piper",
			VoicesDir: "./piper_voices",
			Voices: map[string]string{
				"pt": "pt_BR-faber-medium",
				"en": "en_US-amy-medium",
			},
		},
		Summarizer: SummarizerConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Feeds: []FeedConfig{
			{URL: "https://g1.globo.com/rss/g1/", Language: "pt"},
		},
	}
}
