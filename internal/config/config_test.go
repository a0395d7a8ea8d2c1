package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Client.RequiredExtension != ".rpt" {
		t.Errorf("required extension = %q, want .rpt", cfg.Client.RequiredExtension)
	}
	if cfg.Client.FallbackFilename != "processed_file" {
		t.Errorf("fallback filename = %q, want processed_file", cfg.Client.FallbackFilename)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"relative endpoint", func(c *Config) { c.Client.Endpoint = "/api/process-file" }, ErrInvalidEndpoint},
		{"ftp endpoint", func(c *Config) { c.Client.Endpoint = "ftp://host/x" }, ErrInvalidEndpoint},
		{"extension without dot", func(c *Config) { c.Client.RequiredExtension = "rpt" }, ErrInvalidRequiredExtension},
		{"blank fallback", func(c *Config) { c.Client.FallbackFilename = "  " }, ErrInvalidFallbackFilename},
		{"https endpoint", func(c *Config) { c.Client.Endpoint = "https://example.com/api/process-file" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.ValidateServer(); !errors.Is(err, ErrNoStages) {
		t.Fatalf("ValidateServer() = %v, want %v", err, ErrNoStages)
	}

	cfg.Server.Stages = []StageConfig{{Name: "convert"}}
	if err := cfg.ValidateServer(); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("ValidateServer() = %v, want %v", err, ErrInvalidStage)
	}

	cfg.Server.Stages = []StageConfig{{Name: "convert", Command: []string{"cp", "{input}", "{output}"}}}
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("ValidateServer() = %v, want nil", err)
	}

	cfg.Server.StageTimeout = 0
	if err := cfg.ValidateServer(); !errors.Is(err, ErrInvalidStageTimeout) {
		t.Fatalf("ValidateServer() = %v, want %v", err, ErrInvalidStageTimeout)
	}
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	doc := `
client:
  endpoint: https://converter.example.com/api/process-file
  fallback_filename: result.txt
server:
  stage_timeout: 30s
  stages:
    - name: convert
      command: ["starnet-convert", "{input}", "{output}"]
    - name: cleanup
      command: ["starnet-clean", "{input}", "{output}"]
`
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Client.Endpoint != "https://converter.example.com/api/process-file" {
		t.Errorf("endpoint = %q", cfg.Client.Endpoint)
	}
	if cfg.Client.FallbackFilename != "result.txt" {
		t.Errorf("fallback = %q", cfg.Client.FallbackFilename)
	}
	if cfg.Client.RequiredExtension != ".rpt" {
		t.Errorf("required extension = %q, want default .rpt", cfg.Client.RequiredExtension)
	}
	if cfg.Server.StageTimeout != 30*time.Second {
		t.Errorf("stage timeout = %v, want 30s", cfg.Server.StageTimeout)
	}
	if len(cfg.Server.Stages) != 2 || cfg.Server.Stages[1].Name != "cleanup" {
		t.Fatalf("stages = %+v", cfg.Server.Stages)
	}
	if got := cfg.Server.Stages[0].Command[1]; got != "{input}" {
		t.Errorf("stage arg = %q, want {input}", got)
	}
}
