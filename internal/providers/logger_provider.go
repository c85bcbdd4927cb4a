package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"portal/internal/structures"
	"time"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeUpstream
)

var logFileNames = map[TypeEnum]string{
	TypeApp:      "app.log",
	TypeGet:      "get.log",
	TypePost:     "post.log",
	TypeUpstream: "upstream.log",
}

type Logger interface {
	Errorf(logType TypeEnum, format string, args ...interface{})
	Warnf(logType TypeEnum, format string, args ...interface{})
	Debugf(logType TypeEnum, format string, args ...interface{})
	Infof(logType TypeEnum, format string, args ...interface{})
	Fatalf(logType TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

// GetLogTypeByRequestType routes write requests to post.log and everything
// else to get.log.
func GetLogTypeByRequestType(method string) TypeEnum {
	switch method {
	case "POST", "PUT", "DELETE", "PATCH":
		return TypePost
	default:
		return TypeGet
	}
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	p := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logFileNames))}
	for logType, name := range logFileNames {
		f, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open log file %s: %w", name, err)
		}
		p.files = append(p.files, f)

		var out io.Writer = f
		if conf.Debug {
			out = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		}
		p.loggers[logType] = zerolog.New(out).Level(level).With().Timestamp().Logger()
	}
	return p, nil
}

func (l *LogProvider) get(logType TypeEnum) *zerolog.Logger {
	lg, ok := l.loggers[logType]
	if !ok {
		lg = l.loggers[TypeApp]
	}
	return &lg
}

func (l *LogProvider) Errorf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}
