package logger

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hatlonely/gridx/log/writer"
	"github.com/hatlonely/gridx/ref"
	"go.opentelemetry.io/otel/trace"
)

func TestNewSLogWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *SLogOptions
		wantErr bool
	}{
		{
			name:    "nil options",
			options: nil,
			wantErr: true,
		},
		{
			name: "default console output",
			options: &SLogOptions{
				Level: "info",
			},
			wantErr: false,
		},
		{
			name: "console output with options",
			options: &SLogOptions{
				Level:  "debug",
				Format: "json",
				Output: &ref.TypeOptions{
					Namespace: writer.Namespace,
					Type:      "ConsoleWriter",
					Options: &writer.ConsoleWriterOptions{
						Target: "stdout",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "unknown writer",
			options: &SLogOptions{
				Output: &ref.TypeOptions{Namespace: writer.Namespace, Type: "NoSuchWriter"},
			},
			wantErr: true,
		},
		{
			name: "invalid level",
			options: &SLogOptions{
				Level: "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			options: &SLogOptions{
				Level:  "info",
				Format: "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewSLogWithOptions(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSLogWithOptions() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("NewSLogWithOptions() returned nil logger without error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"DEBUG", false},
		{"INFO", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestSLogJSONOutput(t *testing.T) {
	buf := writer.NewBufferWriter()
	logger, err := NewSLogWithWriter(buf, &SLogOptions{
		Level:  "debug",
		Format: "json",
		Fields: map[string]any{"service": "gridx"},
	})
	if err != nil {
		t.Fatalf("NewSLogWithWriter() error = %v", err)
	}

	logger.With("entity", "invoices").WithGroup("cell").Warn("validation rejected", "column", "amount")
	logger.DebugContext(context.Background(), "debug message")

	lines := buf.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if entry["msg"] != "validation rejected" || entry["level"] != "WARN" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["service"] != "gridx" || entry["entity"] != "invoices" {
		t.Errorf("missing fields: %v", entry)
	}
	cell, ok := entry["cell"].(map[string]any)
	if !ok || cell["column"] != "amount" {
		t.Errorf("missing group: %v", entry)
	}
}

func TestSLogTraceContext(t *testing.T) {
	buf := writer.NewBufferWriter()
	logger, err := NewSLogWithWriter(buf, &SLogOptions{Format: "json", TraceContext: true})
	if err != nil {
		t.Fatalf("NewSLogWithWriter() error = %v", err)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.WithGroup("mutator").InfoContext(ctx, "mutation committed", "operation", "update")
	logger.Info("no span")

	lines := buf.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	group, _ := entry["mutator"].(map[string]any)
	if group["trace_id"] != sc.TraceID().String() || group["span_id"] != sc.SpanID().String() {
		t.Errorf("missing trace context: %v", entry)
	}
	if strings.Contains(lines[1], "trace_id") {
		t.Errorf("unexpected trace context: %s", lines[1])
	}
}

func TestSLogLevelFilter(t *testing.T) {
	buf := writer.NewBufferWriter()
	logger, err := NewSLogWithWriter(buf, &SLogOptions{Level: "warn"})
	if err != nil {
		t.Fatalf("NewSLogWithWriter() error = %v", err)
	}

	logger.Info("hidden")
	logger.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(out, "shown") {
		t.Error("error message should be written")
	}
}

func TestSLogFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewSLogWithOptions(&SLogOptions{
		Format:     "text",
		TimeFormat: "2006-01-02",
		Output: &ref.TypeOptions{
			Namespace: writer.Namespace,
			Type:      "FileWriter",
			Options:   &writer.FileWriterOptions{Path: path},
		},
	})
	if err != nil {
		t.Fatalf("NewSLogWithOptions() error = %v", err)
	}
	logger.Info("to file")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNop(t *testing.T) {
	var l Logger = Nop{}
	l.Info("ignored")
	l.ErrorContext(context.Background(), "ignored")
	if _, ok := l.With("k", "v").WithGroup("g").(Nop); !ok {
		t.Error("Nop.With should return Nop")
	}
}
