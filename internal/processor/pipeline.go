package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"rptconv/internal/config"
	"rptconv/internal/logger"
)

var (
	ErrOutputMissing = errors.New("final output file not created")
	ErrOutputEmpty   = errors.New("output file is empty")
)

const (
	inputPlaceholder  = "{input}"
	outputPlaceholder = "{output}"
)

// Pipeline runs an uploaded file through the configured external stages.
// Each stage reads the previous stage's output.
type Pipeline struct {
	stages  []config.StageConfig
	timeout time.Duration
	log     *slog.Logger
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(stages []config.StageConfig, timeout time.Duration) *Pipeline {
	return &Pipeline{
		stages:  stages,
		timeout: timeout,
		log:     logger.GetLogger().With("component", "pipeline"),
	}
}

// Run processes input and returns the path of the final output, which is
// placed next to input
func (p *Pipeline) Run(ctx context.Context, input string) (string, error) {
	dir := filepath.Dir(input)
	current := input

	for i, stage := range p.stages {
		output := filepath.Join(dir, fmt.Sprintf("stage%d.out", i+1))

		p.log.Debug("Starting stage", "stage", stage.Name, "input", current, "output", output)
		if err := p.runStage(ctx, stage, dir, current, output); err != nil {
			return "", err
		}
		p.log.Debug("Stage complete", "stage", stage.Name)

		current = output
	}

	info, err := os.Stat(current)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, filepath.Base(current))
	}
	if info.Size() == 0 {
		return "", ErrOutputEmpty
	}

	p.log.Info("Output file ready", "bytes", info.Size())
	return current, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage config.StageConfig, dir, input, output string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := ExpandArgs(stage.Command, input, output)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("stage %s failed: %w: %s", stage.Name, err, msg)
		}
		return fmt.Errorf("stage %s failed: %w", stage.Name, err)
	}
	return nil
}

// ExpandArgs substitutes the input and output placeholders in command
func ExpandArgs(command []string, input, output string) []string {
	r := strings.NewReplacer(inputPlaceholder, input, outputPlaceholder, output)
	args := make([]string, len(command))
	for i, a := range command {
		args[i] = r.Replace(a)
	}
	return args
}
