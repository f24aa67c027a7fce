package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Pipeline.MaxNews != 10 {
		t.Fatalf("unexpected maxNews: %d", cfg.Pipeline.MaxNews)
	}
	if cfg.Pipeline.MaxAttempts != 3 {
		t.Fatalf("unexpected maxAttempts: %d", cfg.Pipeline.MaxAttempts)
	}
	if cfg.Scheduler.Location().String() != "America/Sao_Paulo" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
	if len(cfg.Feeds) == 0 {
		t.Fatal("expected at least one default feed")
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := `
scheduler:
  timezone: UTC
  intervalHours: 6
pipeline:
  maxNews: 3
  baseCooldownSeconds: 1
notifications:
  telegram:
    botToken: from-file
feeds:
  - url: https://example.com/rss
    language: en
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("NEWS_COLLETECTOR_CONFIG", path)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg := Load()

	if cfg.Pipeline.MaxNews != 3 {
		t.Fatalf("file value not applied: %d", cfg.Pipeline.MaxNews)
	}
	if cfg.Pipeline.BaseCooldown() != time.Second {
		t.Fatalf("unexpected base cooldown: %v", cfg.Pipeline.BaseCooldown())
	}
	if cfg.Scheduler.Interval() != 6*time.Hour {
		t.Fatalf("unexpected interval: %v", cfg.Scheduler.Interval())
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("timezone not rebound: %s", cfg.Scheduler.Location())
	}
	if cfg.Notifications.Telegram.BotToken != "from-env" {
		t.Fatalf("env override lost: %q", cfg.Notifications.Telegram.BotToken)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Language != "en" {
		t.Fatalf("feeds not replaced: %+v", cfg.Feeds)
	}
}

func TestVoiceFallback(t *testing.T) {
	t.Parallel()

	tts := TTSConfig{Voices: map[string]string{"pt": "faber", "en": "amy"}}
	if tts.Voice("en") != "amy" {
		t.Fatalf("unexpected voice: %s", tts.Voice("en"))
	}
	if tts.Voice("de") != "faber" {
		t.Fatalf("expected pt fallback, got %s", tts.Voice("de"))
	}
}
