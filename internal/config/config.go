package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidEndpoint          = errors.New("client endpoint must be an absolute http(s) URL")
	ErrInvalidRequiredExtension = errors.New("required extension must start with '.'")
	ErrInvalidFallbackFilename  = errors.New("fallback filename must be set")
	ErrInvalidServerAddr        = errors.New("server address must be set")
	ErrInvalidMaxUploadSize     = errors.New("max upload size must be greater than 0")
	ErrInvalidStageTimeout      = errors.New("stage timeout must be greater than 0")
	ErrNoStages                 = errors.New("at least one processing stage must be configured")
	ErrInvalidStage             = errors.New("processing stage must have a name and a command")
)

// Config holds all application configuration
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Client   ClientConfig `mapstructure:"client"`
	Server   ServerConfig `mapstructure:"server"`
}

// ClientConfig holds upload client configuration
type ClientConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	RequiredExtension string `mapstructure:"required_extension"`
	FallbackFilename  string `mapstructure:"fallback_filename"`
	OutputDir         string `mapstructure:"output_dir"`
	ShowProgress      bool   `mapstructure:"show_progress"`
}

// ServerConfig holds process server configuration
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	StaticDir      string        `mapstructure:"static_dir"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	StageTimeout   time.Duration `mapstructure:"stage_timeout"`
	Stages         []StageConfig `mapstructure:"stages"`
}

// StageConfig describes one external conversion step. Command arguments may
// reference {input} and {output}.
type StageConfig struct {
	Name    string   `mapstructure:"name"`
	Command []string `mapstructure:"command"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Client: ClientConfig{
			Endpoint:          "http://localhost:5000/process-file",
			RequiredExtension: ".rpt",
			FallbackFilename:  "processed_file",
			OutputDir:         ".",
			ShowProgress:      true,
		},
		Server: ServerConfig{
			Addr: ":5000",
			AllowedOrigins: []string{
				"http://localhost:5000",
			},
			MaxUploadBytes: 32 << 20, // 32 MB
			StageTimeout:   2 * time.Minute,
		},
	}
}

// SetDefaults registers every scalar key so that environment variables can
// override it through v.AutomaticEnv
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("client.endpoint", d.Client.Endpoint)
	v.SetDefault("client.required_extension", d.Client.RequiredExtension)
	v.SetDefault("client.fallback_filename", d.Client.FallbackFilename)
	v.SetDefault("client.output_dir", d.Client.OutputDir)
	v.SetDefault("client.show_progress", d.Client.ShowProgress)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.static_dir", d.Server.StaticDir)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.stage_timeout", d.Server.StageTimeout)
}

// Load overlays values known to v on top of the defaults
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

// Validate ensures the client configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.Client.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if !strings.HasPrefix(c.Client.RequiredExtension, ".") {
		return ErrInvalidRequiredExtension
	}
	if strings.TrimSpace(c.Client.FallbackFilename) == "" {
		return ErrInvalidFallbackFilename
	}
	return nil
}

// ValidateServer ensures the server configuration is usable
func (c *Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return ErrInvalidServerAddr
	}
	if c.Server.MaxUploadBytes <= 0 {
		return ErrInvalidMaxUploadSize
	}
	if c.Server.StageTimeout <= 0 {
		return ErrInvalidStageTimeout
	}
	if len(c.Server.Stages) == 0 {
		return ErrNoStages
	}
	for _, s := range c.Server.Stages {
		if s.Name == "" || len(s.Command) == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidStage, s.Name)
		}
	}
	return nil
}
