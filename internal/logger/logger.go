package logger

import (
	"fmt"
	"log/slog"
	"os"
)

var log *slog.Logger

func Init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// logger initializes lazily so tests that skip Init still get output.
func logger() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, args ...interface{}) {
	logger().Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	logger().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...interface{}) {
	logger().Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	logger().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...interface{}) {
	logger().Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	logger().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	logger().Error(msg)
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	logger().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
