// Package tts holds exec-backed speech engines. Narration runs as an
// external process so a crashed model never takes the pipeline down with
// it.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/robcarv/news-colletector/internal/ports"
)

// PiperEngine narrates via the piper binary, feeding text on stdin. Piper
// writes WAV output directly to the requested path.
type PiperEngine struct {
	execPath  string
	voicesDir string
}

var _ ports.SpeechEngine = (*PiperEngine)(nil)

// NewPiperEngine points at the piper executable and its voice models.
func NewPiperEngine(execPath, voicesDir string) *PiperEngine {
	return &PiperEngine{execPath: execPath, voicesDir: voicesDir}
}

// Name identifies the engine inside the registry.
func (p *PiperEngine) Name() string { return "piper" }

// Synthesize runs piper with the voice model named in the request. An
// empty or missing output file counts as failure even when piper exits
// zero; it fails silently on some malformed inputs.
func (p *PiperEngine) Synthesize(ctx context.Context, req ports.SpeechRequest) error {
	if req.Text == "" {
		return fmt.Errorf("empty text for %s", req.OutputPath)
	}

	model := filepath.Join(p.voicesDir, req.Voice+".onnx")
	modelConfig := model + ".json"

	if _, err := os.Stat(p.execPath); err != nil {
		return fmt.Errorf("piper executable: %w", err)
	}
	if _, err := os.Stat(model); err != nil {
		return fmt.Errorf("piper voice %s: %w", req.Voice, err)
	}

	cmd := exec.CommandContext(ctx, p.execPath,
		"--model", model,
		"--config", modelConfig,
		"--output_file", req.OutputPath,
	)
	cmd.Stdin = strings.NewReader(req.Text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return fmt.Errorf("piper produced no output: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(req.OutputPath)
		return fmt.Errorf("piper produced empty output for %s", req.OutputPath)
	}

	return nil
}
