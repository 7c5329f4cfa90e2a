package telemetry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kiidfreak/Ag3nt-05/pkg/config"
)

func TestInitStdoutExporter(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, "test-host", "0.0.0", config.TelemetryConfig{Exporter: "stdout"})
	if err != nil {
		t.Fatal(err)
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestInitEmptyExporterDefaultsToStdout(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, "test-host", "0.0.0", config.TelemetryConfig{})
	if err != nil {
		t.Fatal(err)
	}
	_ = shutdown(ctx)
}

func TestInitRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TelemetryConfig
		wantErr string
	}{
		{
			name:    "unknown exporter",
			cfg:     config.TelemetryConfig{Exporter: "jaeger"},
			wantErr: "unknown telemetry exporter",
		},
		{
			name:    "otlp without endpoint",
			cfg:     config.TelemetryConfig{Exporter: "otlp"},
			wantErr: "otlp endpoint is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Init(context.Background(), "test-host", "0.0.0", tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
