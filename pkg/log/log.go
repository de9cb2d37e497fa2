// Package log provides structured logging for the font pipeline on top of go-zero logx.
package log

import (
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
)

// Setup configures the underlying logx writer. A zero LogConf gives plain
// console output at info level.
func Setup(c logx.LogConf) error {
	if c.Mode == "" {
		c.Mode = "console"
	}
	if c.Encoding == "" {
		c.Encoding = "plain"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	logx.DisableStat()
	return logx.SetUp(c)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	logx.Debugw(msg, fields(args)...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	logx.Infow(msg, fields(args)...)
}

// Warn logs a warning message with optional key-value pairs.
// logx has no warn level, so warnings are info entries tagged severity=warn.
func Warn(msg string, args ...any) {
	logx.Infow(msg, append(fields(args), logx.Field("severity", "warn"))...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	logx.Errorw(msg, fields(args)...)
}

// fields pairs up slog-style alternating keys and values.
func fields(args []any) []logx.LogField {
	out := make([]logx.LogField, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			out = append(out, logx.Field("!BADKEY", key))
			break
		}
		out = append(out, logx.Field(key, args[i+1]))
	}
	return out
}
