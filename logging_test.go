package diskcache

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: LogLevelDebug},
		{input: "INFO", want: LogLevelInfo},
		{input: "warn", want: LogLevelWarn},
		{input: "warning", want: LogLevelWarn},
		{input: "Error", want: LogLevelError},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	ctx := context.Background()

	for _, logger := range []*Logger{nil, NewNopLogger(), {}} {
		logger.Debug(ctx, "msg", "k", "v")
		logger.Info(ctx, "msg")
		logger.Warn(ctx, "msg")
		logger.Error(ctx, "msg")
		logger.With("k", "v").Info(ctx, "msg")
		logger.WithOperation(OpGet).Debug(ctx, "msg")
		logger.WithKey("k1").WithSize(42).Info(ctx, "msg")
	}
}

func TestSlogLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	logger.WithOperation(OpSet).WithKey("k1").WithSize(7).Info(context.Background(), "cache entry stored")

	out := buf.String()
	if !strings.Contains(out, "cache entry stored") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "operation=set") {
		t.Errorf("log output missing operation field: %q", out)
	}
	if !strings.Contains(out, "key=k1") {
		t.Errorf("log output missing key field: %q", out)
	}
	if !strings.Contains(out, "size=7") {
		t.Errorf("log output missing size field: %q", out)
	}
}

func TestSlogLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	logger.Debug(context.Background(), "quiet")
	logger.Warn(context.Background(), "loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("debug message leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewSlogLoggerNil(t *testing.T) {
	logger := NewSlogLogger(nil)
	logger.Info(context.Background(), "msg")
}

func TestEvictReasonString(t *testing.T) {
	tests := map[EvictReason]string{
		EvictExpired:    "expired",
		EvictCapacity:   "capacity",
		EvictReplaced:   "replaced",
		EvictManual:     "manual",
		EvictReason(99): "unknown",
	}
	for reason, want := range tests {
		if got := reason.String(); got != want {
			t.Errorf("EvictReason(%d).String() = %q, want %q", int(reason), got, want)
		}
	}
}
