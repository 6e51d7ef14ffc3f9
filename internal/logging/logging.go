package logging

import (
	"log/slog"
	"os"
)

// Init sets up the process-wide structured logger. JSON output so the
// logs are machine-readable in deployment; also installed as the slog
// default so packages can log without carrying a logger around.
func Init() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
