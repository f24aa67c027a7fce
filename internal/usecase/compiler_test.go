package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

type fakeConcat struct {
	calls   int
	inputs  []string
	silence time.Duration
	output  string
	err     error
}

func (f *fakeConcat) Concat(_ context.Context, inputs []string, silence time.Duration, outputPath string) error {
	f.calls++
	f.inputs = append([]string(nil), inputs...)
	f.silence = silence
	f.output = outputPath
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("mp3"), 0o644)
}

func newTestCompiler(t *testing.T, concat *fakeConcat) (*Compiler, string) {
	t.Helper()
	dir := t.TempDir()
	c := NewCompiler(concat, dir, time.UTC, testLogger())
	c.now = func() time.Time { return time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC) }
	return c, dir
}

func writeNarration(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCompilerOrdersBySourceIndex(t *testing.T) {
	t.Parallel()

	concat := &fakeConcat{}
	c, dir := newTestCompiler(t, concat)

	first := writeNarration(t, dir, "src_a.wav")
	second := writeNarration(t, dir, "src_b.wav")

	// Completion order differs from feed order; the episode must follow
	// the feed.
	episode, err := c.Compile(context.Background(), []domain.AudioArtifact{
		{Path: second, SourceItemIndex: 1},
		{Path: first, SourceItemIndex: 0},
	}, "src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if episode == nil || episode.ConstituentCount != 2 {
		t.Fatalf("episode = %+v", episode)
	}
	if concat.inputs[0] != first || concat.inputs[1] != second {
		t.Fatalf("inputs = %v", concat.inputs)
	}
	if concat.silence != SilencePadding {
		t.Fatalf("silence = %v", concat.silence)
	}
	if !strings.Contains(filepath.Base(episode.AudioPath), episodeMarker) {
		t.Fatalf("episode name %q lacks marker", episode.AudioPath)
	}
}

func TestCompilerSkipsMissingFilesAndEmptyBatches(t *testing.T) {
	t.Parallel()

	concat := &fakeConcat{}
	c, dir := newTestCompiler(t, concat)
	present := writeNarration(t, dir, "src_x.wav")

	episode, err := c.Compile(context.Background(), []domain.AudioArtifact{
		{Path: filepath.Join(dir, "vanished.wav"), SourceItemIndex: 0},
		{Path: present, SourceItemIndex: 1},
	}, "src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if episode.ConstituentCount != 1 || concat.inputs[0] != present {
		t.Fatalf("episode = %+v inputs = %v", episode, concat.inputs)
	}

	episode, err = c.Compile(context.Background(), nil, "src")
	if err != nil {
		t.Fatalf("compile empty: %v", err)
	}
	if episode != nil {
		t.Fatalf("empty batch produced %+v", episode)
	}
	if concat.calls != 1 {
		t.Fatalf("concat calls = %d", concat.calls)
	}
}

func TestCompilerVersionsCollidingEpisodeNames(t *testing.T) {
	t.Parallel()

	concat := &fakeConcat{}
	c, dir := newTestCompiler(t, concat)
	narration := writeNarration(t, dir, "src_y.wav")
	artifacts := []domain.AudioArtifact{{Path: narration, SourceItemIndex: 0}}

	first, err := c.Compile(context.Background(), artifacts, "src")
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	second, err := c.Compile(context.Background(), artifacts, "src")
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}

	if first.AudioPath == second.AudioPath {
		t.Fatalf("both episodes wrote to %s", first.AudioPath)
	}
	if !strings.HasSuffix(second.AudioPath, "_2.mp3") {
		t.Fatalf("second path = %s", second.AudioPath)
	}
}
