package whatsapp

import (
	"context"
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"
)

// slogAdapter пробрасывает журнал whatsmeow в общий slog-логгер приложения.
type slogAdapter struct {
	base   *slog.Logger
	logger *slog.Logger
	module string
}

func newLogAdapter(logger *slog.Logger, module string) waLog.Logger {
	return &slogAdapter{base: logger, logger: logger.With("module", module), module: module}
}

func (l *slogAdapter) log(level slog.Level, msg string, args ...any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}

	l.logger.Log(context.Background(), level, fmt.Sprintf(msg, args...))
}

func (l *slogAdapter) Warnf(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *slogAdapter) Errorf(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }
func (l *slogAdapter) Infof(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *slogAdapter) Debugf(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

func (l *slogAdapter) Sub(module string) waLog.Logger {
	return newLogAdapter(l.base, l.module+"/"+module)
}
