// Package wirebuf builds and parses flat binary messages made of integers,
// floats and length prefixed strings.
//
// The work is done by package bytebuffer; this package wires it to the
// environment: logging, configuration and the location of memory mapped
// buffers.
//
// Some examples on using the API are implemented as executable go programs in the
// `examples` subdirectory.
package wirebuf

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/performancecopilot/wirebuf/bytebuffer"
	"github.com/performancecopilot/wirebuf/wiredump"
)

// Version is the last tagged version of the package
const Version = "1.0.0"

var logging bool
var logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
var logWriters = []zapcore.WriteSyncer{os.Stdout}
var logger *zap.Logger
var zapEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
}

func initLogging() {
	logging = false
	initializeLogger()
}

// EnableLogging enables logging for this module and its packages if true is
// passed and disables it if false is passed.
func EnableLogging(enable bool) {
	logging = enable
	propagateLogger()
}

// SetLogLevel sets the minimum level that gets logged. Growth and remapping
// of buffers is logged at debug level.
func SetLogLevel(level zapcore.Level) {
	logLevel.SetLevel(level)
}

// AddLogWriter adds a new io.Writer as a target for writing
// logs.
func AddLogWriter(writer io.Writer) {
	logWriters = append(logWriters, zapcore.AddSync(writer))
	initializeLogger()
}

// SetLogWriters will set the passed io.Writer instances as targets for
// writing logs.
func SetLogWriters(writers ...io.Writer) {
	writesyncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		writesyncers = append(writesyncers, zapcore.AddSync(w))
	}

	logWriters = writesyncers
	initializeLogger()
}

// Logger returns the module logger. It discards everything unless logging
// is enabled.
func Logger() *zap.Logger {
	if !logging {
		return zap.NewNop()
	}

	return logger
}

func initializeLogger() {
	ws := zap.CombineWriteSyncers(logWriters...)
	logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapEncoderConfig),
		ws, logLevel,
	))
	propagateLogger()
}

func propagateLogger() {
	l := Logger()
	bytebuffer.SetLogger(l)
	wiredump.SetLogger(l)
}

// init maintains a central location of all things that happen when the package is initialized
// instead of everything being scattered in multiple source files
func init() {
	initLogging()

	err := initConfig()
	if err != nil && logging {
		logger.Error("error initializing config",
			zap.String("module", "config"),
			zap.Error(err),
		)
	}
}
