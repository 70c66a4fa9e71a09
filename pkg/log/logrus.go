package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Ensure logrusLogger implements the Logger interface
var _ Logger = (*logrusLogger)(nil)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "odometry.log"

// logrusLogger wraps logrus to satisfy the Logger interface
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates and configures a new logger instance using logrus.
// It logs to the console and, when logDir is set, to logDir/odometry.log.
func NewLogrusLogger(logLevel string, logDir string) (Logger, error) {
	if logDir == "" {
		return NewLogrusLoggerWithWriter(logLevel, os.Stdout), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}
	logFilePath := filepath.Join(logDir, LogFileName)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
	}

	return NewLogrusLoggerWithWriter(logLevel, io.MultiWriter(os.Stdout, logFile)), nil
}

// NewLogrusLoggerWithWriter creates a logger that writes to w only.
// An unparsable level falls back to info.
func NewLogrusLoggerWithWriter(logLevel string, w io.Writer) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&SimpleFormatter{
		TimestampFormat: "2006/01/02 15:04:05.000000",
	})
	l.SetOutput(w)

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// --- Interface Method Implementations ---

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// ComponentKey is the field rendered as a bracketed prefix instead of k=v.
const ComponentKey = "component"

const defaultTimestampFormat = "2006/01/02 15:04:05.000000"

// SimpleFormatter writes one line per entry:
//
//	2025/04/06 17:30:00.000000 [WAR] [loop] publish failed bytes=42 topic=odom
//
// Remaining fields follow in key order. Values containing spaces are quoted.
type SimpleFormatter struct {
	TimestampFormat string
}

func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	layout := f.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}
	b.WriteString(entry.Time.Format(layout))
	fmt.Fprintf(b, " [%s] ", levelTag(entry.Level))

	if component, ok := entry.Data[ComponentKey]; ok {
		fmt.Fprintf(b, "[%v] ", component)
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != ComponentKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fmt.Sprint(entry.Data[k])
		if strings.ContainsAny(v, " \t\n") {
			v = strconv.Quote(v)
		}
		fmt.Fprintf(b, " %s=%s", k, v)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// levelTag is the three letter upper-case level name, e.g. INF or WAR.
func levelTag(level logrus.Level) string {
	tag := strings.ToUpper(level.String())
	if len(tag) > 3 {
		tag = tag[:3]
	}
	return tag
}
