package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rptconv/internal/config"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.rpt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestExpandArgs(t *testing.T) {
	got := ExpandArgs([]string{"conv", "--in={input}", "{output}", "plain"}, "/w/in", "/w/out")
	want := []string{"conv", "--in=/w/in", "/w/out", "plain"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("ExpandArgs = %q, want %q", got, want)
	}
}

func TestPipelineChainsStages(t *testing.T) {
	p := NewPipeline([]config.StageConfig{
		{Name: "convert", Command: []string{"sh", "-c", `tr a-z A-Z < "$0" > "$1"`, "{input}", "{output}"}},
		{Name: "cleanup", Command: []string{"sh", "-c", `sed 's/ *$//' "$0" > "$1"`, "{input}", "{output}"}},
	}, time.Minute)

	out, err := p.Run(context.Background(), writeInput(t, "station a   \n"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "STATION A\n" {
		t.Errorf("output = %q, want %q", got, "STATION A\n")
	}
}

func TestPipelineStageFailure(t *testing.T) {
	p := NewPipeline([]config.StageConfig{
		{Name: "convert", Command: []string{"sh", "-c", "echo bad header >&2; exit 3"}},
	}, time.Minute)

	_, err := p.Run(context.Background(), writeInput(t, "x"))
	if err == nil {
		t.Fatal("Run succeeded, want error")
	}
	if !strings.Contains(err.Error(), "stage convert failed") || !strings.Contains(err.Error(), "bad header") {
		t.Errorf("error = %v", err)
	}
}

func TestPipelineEmptyOutput(t *testing.T) {
	p := NewPipeline([]config.StageConfig{
		{Name: "convert", Command: []string{"cp", "{input}", "{output}"}},
	}, time.Minute)

	_, err := p.Run(context.Background(), writeInput(t, ""))
	if !errors.Is(err, ErrOutputEmpty) {
		t.Fatalf("Run error = %v, want %v", err, ErrOutputEmpty)
	}
}

func TestPipelineMissingOutput(t *testing.T) {
	p := NewPipeline([]config.StageConfig{
		{Name: "convert", Command: []string{"true"}},
	}, time.Minute)

	_, err := p.Run(context.Background(), writeInput(t, "x"))
	if !errors.Is(err, ErrOutputMissing) {
		t.Fatalf("Run error = %v, want %v", err, ErrOutputMissing)
	}
}

func TestPipelineStageTimeout(t *testing.T) {
	p := NewPipeline([]config.StageConfig{
		{Name: "slow", Command: []string{"sleep", "5"}},
	}, 50*time.Millisecond)

	_, err := p.Run(context.Background(), writeInput(t, "x"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
}
