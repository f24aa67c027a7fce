package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/robcarv/news-colletector/internal/ports"
)

// CommandEngine adapts any external TTS binary via an argv template. The
// placeholders {text}, {voice}, {language} and {output} are substituted
// per request; text is also available on stdin.
type CommandEngine struct {
	argv []string
}

var _ ports.SpeechEngine = (*CommandEngine)(nil)

// NewCommandEngine builds an engine from a non-empty argv template.
func NewCommandEngine(argv []string) (*CommandEngine, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("command engine needs a non-empty argv")
	}
	return &CommandEngine{argv: argv}, nil
}

// Name identifies the engine inside the registry.
func (c *CommandEngine) Name() string { return "command" }

// Synthesize substitutes the placeholders and runs the command.
func (c *CommandEngine) Synthesize(ctx context.Context, req ports.SpeechRequest) error {
	if req.Text == "" {
		return fmt.Errorf("empty text for %s", req.OutputPath)
	}

	replacer := strings.NewReplacer(
		"{text}", req.Text,
		"{voice}", req.Voice,
		"{language}", req.Language,
		"{output}", req.OutputPath,
	)

	argv := make([]string, len(c.argv))
	for i, arg := range c.argv {
		argv[i] = replacer.Replace(arg)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(req.Text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tts command: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	if info, err := os.Stat(req.OutputPath); err != nil || info.Size() == 0 {
		return fmt.Errorf("tts command produced no output at %s", req.OutputPath)
	}

	return nil
}
