package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetLevel(t *testing.T) {
	log := GetLogger()
	defer SetLevel("info")

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.name)
			if !log.Enabled(context.Background(), tt.want) {
				t.Errorf("level %v not enabled after SetLevel(%q)", tt.want, tt.name)
			}
			if tt.want > slog.LevelDebug && log.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %v enabled after SetLevel(%q)", tt.want, tt.name)
			}
		})
	}
}
