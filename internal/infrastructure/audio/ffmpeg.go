// Package audio wraps ffmpeg for episode assembly. Concatenation and
// silence generation run out of process; the pipeline never decodes
// audio itself.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/robcarv/news-colletector/internal/ports"
)

// FFmpegConcatenator joins narrations with the concat demuxer. A silence
// clip is rendered once per run and referenced before the first segment
// and after every segment.
type FFmpegConcatenator struct {
	execPath string
}

var _ ports.Concatenator = (*FFmpegConcatenator)(nil)

// NewFFmpegConcatenator uses "ffmpeg" from PATH when execPath is empty.
func NewFFmpegConcatenator(execPath string) *FFmpegConcatenator {
	if execPath == "" {
		execPath = "ffmpeg"
	}
	return &FFmpegConcatenator{execPath: execPath}
}

// Concat renders silence, writes a concat list interleaving it with the
// inputs, and re-encodes the result to outputPath.
func (f *FFmpegConcatenator) Concat(ctx context.Context, inputs []string, silence time.Duration, outputPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("nothing to concatenate")
	}

	workDir, err := os.MkdirTemp("", "episode-concat-*")
	if err != nil {
		return fmt.Errorf("concat workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	silencePath := filepath.Join(workDir, "silence.wav")
	if err := f.renderSilence(ctx, silence, silencePath); err != nil {
		return err
	}

	listPath := filepath.Join(workDir, "concat.txt")
	list, err := concatList(silencePath, inputs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := []string{
		"-y", "-f", "concat", "-safe", "0",
		"-i", listPath,
		"-ar", "22050", "-ac", "1",
		outputPath,
	}
	if err := f.run(ctx, args); err != nil {
		os.Remove(outputPath)
		return err
	}

	return nil
}

// concatList builds the demuxer input: a silence clip leads, and every
// narration is followed by another one.
func concatList(silencePath string, inputs []string) (string, error) {
	var list strings.Builder
	fmt.Fprintf(&list, "file '%s'\n", silencePath)
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", input, err)
		}
		fmt.Fprintf(&list, "file '%s'\n", abs)
		fmt.Fprintf(&list, "file '%s'\n", silencePath)
	}
	return list.String(), nil
}

func (f *FFmpegConcatenator) renderSilence(ctx context.Context, d time.Duration, path string) error {
	args := []string{
		"-y", "-f", "lavfi",
		"-i", "anullsrc=r=22050:cl=mono",
		"-t", fmt.Sprintf("%.3f", d.Seconds()),
		path,
	}
	return f.run(ctx, args)
}

func (f *FFmpegConcatenator) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.execPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", args[len(args)-1], err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
