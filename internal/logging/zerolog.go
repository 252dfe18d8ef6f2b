package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZerologLogger adapts zerolog.Logger to Logger. The client uses it to write
// into a rotating file so that log lines never interleave with REPL output.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	return &ZerologLogger{l: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewRotatingFileWriter returns a size-rotated log file writer.
func NewRotatingFileWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Debug(), ctx, msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Info(), ctx, msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Warn(), ctx, msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Error(), ctx, msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i < len(args); i += 2 {
		c = c.Interface(keyAt(args, i), valueAt(args, i))
	}
	return &ZerologLogger{l: c.Logger()}
}

func (z *ZerologLogger) emit(e *zerolog.Event, ctx context.Context, msg string, args []any) {
	if e == nil {
		return
	}
	e = e.Ctx(ctx)
	for i := 0; i < len(args); i += 2 {
		e = e.Interface(keyAt(args, i), valueAt(args, i))
	}
	e.Msg(msg)
}

// keyAt and valueAt follow slog's convention: a dangling value is logged
// under "!BADKEY".
func keyAt(args []any, i int) string {
	if i+1 >= len(args) {
		return "!BADKEY"
	}
	if s, ok := args[i].(string); ok {
		return s
	}
	return fmt.Sprint(args[i])
}

func valueAt(args []any, i int) any {
	if i+1 >= len(args) {
		return args[i]
	}
	return args[i+1]
}
