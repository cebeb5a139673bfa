package log

import (
	"context"
	"log/slog"
	"testing"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToLogLevel(tt.level); got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestToLogLevelPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown level")
		}
	}()
	ToLogLevel("verbose")
}

func TestTestLoggerCapturesFields(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	logger.Info("training started",
		MethodKey, "rf",
		RowsKey, 700,
	)

	if !logger.ContainsMessage("training started") {
		t.Error("expected message to be captured")
	}
	if !logger.ContainsField(MethodKey, "rf") {
		t.Error("expected method field to be captured")
	}

	entries, err := logger.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, buffer := NewTestLogger(LevelWarn)

	logger.Debug("suppressed")
	logger.Info("suppressed too")
	logger.Warn("kept")

	if logger.ContainsMessage("suppressed") {
		t.Error("debug/info should be filtered below warn level")
	}
	if !logger.ContainsMessage("kept") {
		t.Errorf("warn message missing, buffer: %s", buffer.String())
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error level should be enabled")
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug level should be disabled")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(ModelLabelKey, "Random Forest")

	child.Info("evaluated")

	tl, ok := child.(*TestLogger)
	if !ok {
		t.Fatal("With should return a *TestLogger")
	}
	if !tl.ContainsField(ModelLabelKey, "Random Forest") {
		t.Error("expected pre-populated field in child logger output")
	}
}
