package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until Initialize runs.
var Log = zap.NewNop()

// Options controls where log output goes
type Options struct {
	// Level: "debug", "info", "warn", "error" (default: "info")
	Level string
	// File is rotated by lumberjack; empty disables file output
	File string
	// Console receives human-readable output; nil disables it
	Console io.Writer
}

// Initialize sets up the structured logger with file rotation
func Initialize(opts Options) error {
	if opts.Level == "" {
		opts.Level = "info"
	}
	level := parseLogLevel(opts.Level)

	var cores []zapcore.Core

	if opts.Console != nil {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(opts.Console), level))
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		})
		jsonEncoderConfig := zap.NewProductionEncoderConfig()
		jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig), fileWriter, level))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
		return nil
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	Log.Debug("Logger initialized",
		zap.String("level", opts.Level),
		zap.String("file", opts.File),
	)
	return nil
}

// InitializeServer logs to stdout and a rotated file, the way the API server runs
func InitializeServer(logLevel, logFile string) error {
	if logFile == "" {
		logFile = "server.log"
	}
	return Initialize(Options{Level: logLevel, File: logFile, Console: os.Stdout})
}

// Close flushes the logger before shutdown
func Close() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func WithRequestID(requestID string) zap.Field {
	return zap.String("request_id", requestID)
}

func WithProposalID(proposalID string) zap.Field {
	return zap.String("proposal_id", proposalID)
}

func WithVoter(voter string) zap.Field {
	return zap.String("voter", voter)
}

func WithIP(ip string) zap.Field {
	return zap.String("ip", ip)
}

func WithStatus(status int) zap.Field {
	return zap.Int("status", status)
}

func WithMode(mode string) zap.Field {
	return zap.String("mode", mode)
}
