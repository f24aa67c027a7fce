package tts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/robcarv/news-colletector/internal/ports"
)

func TestCommandEngineSubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	out := filepath.Join(t.TempDir(), "narration.wav")
	engine, err := NewCommandEngine([]string{"sh", "-c", `printf '%s' "{voice}:{language}" > "{output}"`})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	err = engine.Synthesize(context.Background(), ports.SpeechRequest{
		Text:       "hello",
		Language:   "en",
		Voice:      "amy",
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != "amy:en" {
		t.Fatalf("placeholders not substituted: %q", raw)
	}
}

func TestCommandEngineEmptyOutputFails(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	out := filepath.Join(t.TempDir(), "narration.wav")
	engine, err := NewCommandEngine([]string{"sh", "-c", `: > "{output}"`})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	err = engine.Synthesize(context.Background(), ports.SpeechRequest{Text: "hello", OutputPath: out})
	if err == nil {
		t.Fatal("expected empty output to fail")
	}
}

func TestCommandEngineRejectsEmptyText(t *testing.T) {
	t.Parallel()

	engine, err := NewCommandEngine([]string{"true"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.Synthesize(context.Background(), ports.SpeechRequest{OutputPath: "x.wav"}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestPiperEngineMissingBinary(t *testing.T) {
	t.Parallel()

	engine := NewPiperEngine(filepath.Join(t.TempDir(), "missing-piper"), t.TempDir())
	err := engine.Synthesize(context.Background(), ports.SpeechRequest{
		Text:       "hello",
		Voice:      "amy",
		OutputPath: filepath.Join(t.TempDir(), "out.wav"),
	})
	if err == nil {
		t.Fatal("expected missing binary to fail")
	}
}
