package backdrop

import (
	"log/slog"

	"github.com/gogpu/backdrop/host"
)

// SetLogger configures the logger shared by backdrop, its renderers and
// the host drivers. By default backdrop produces no log output. Pass nil
// to restore the silent default.
//
// SetLogger is safe for concurrent use. Instances capture the logger when
// they mount; use WithLogger to override it for a single instance.
//
// Log levels used by backdrop:
//   - [slog.LevelDebug]: container lookups that found nothing, resizes
//   - [slog.LevelInfo]: mount and unmount
//   - [slog.LevelWarn]: failed mounts, renderer fallbacks and teardown
//     steps that panicked
//
// Example:
//
//	backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	host.SetLogger(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return host.Logger()
}
