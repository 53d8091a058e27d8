package logger

import (
	"strings"
	"sync"
	"time"

	"github.com/spirit-labs/endbclient/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger
var log *zap.SugaredLogger
var initLock sync.Mutex
var initialised bool

func init() {
	initialise(zapcore.WarnLevel, "console", false)
}

type Config struct {
	Format string `help:"Format to write log lines in" enum:"console,json" default:"console"`
	Level  string `help:"Lowest log level that will be emitted" enum:"debug,info,warn,error" default:"warn"`
}

func (cfg *Config) Configure() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		return errors.WithStack(err)
	}
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format != "console" && format != "json" {
		return errors.NewInvalidConfigurationError("log-format must be one of 'console' or 'json'")
	}
	Initialise(level, format)
	return nil
}

var DebugEnabled = false

func Initialise(level zapcore.Level, encoding string) {
	initialise(level, encoding, true)
}

func initialise(level zapcore.Level, encoding string, override bool) {
	initLock.Lock()
	defer initLock.Unlock()
	if initialised && !override {
		return
	}
	logger = CreateLogger(level, encoding)
	log = logger.Sugar()

	// Cached as a plain bool, it only changes when the logger is re-initialised
	DebugEnabled = logger.Core().Enabled(zap.DebugLevel)

	initialised = true
}

// CreateLogger writes to stderr so that query results on stdout are never interleaved with log lines.
func CreateLogger(level zapcore.Level, encoding string) *zap.Logger {
	encoderConf := zapcore.EncoderConfig{
		// Keys can be anything except the empty string.
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	conf := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Sampling:         nil,
		Encoding:         encoding,
		EncoderConfig:    encoderConf,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	conf.DisableCaller = true
	conf.DisableStacktrace = true
	l, _ := conf.Build()
	return l
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.999999"))
}

// Named returns a sugared logger for a component, sharing the global core and level.
func Named(name string) *zap.SugaredLogger {
	initLock.Lock()
	defer initLock.Unlock()
	return log.Named(name)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	if !DebugEnabled {
		return
	}
	log.Debugf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}
