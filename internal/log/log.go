// Package log provides the ambient logging facility used throughout the
// tracer: a pluggable sink plus rate-limited aggregation for errors that
// would otherwise flood the process's error stream under sustained
// collector failures.
package log

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level specifies the logging level that the package prints at.
type Level int

const (
	// LevelDebug represents debug level messages.
	LevelDebug Level = iota
	// LevelWarn represents warning and error messages.
	LevelWarn
)

const prefixMsg = "zipkin-opentracing-go"

// Logger implementations log the given message. The interface is
// intentionally narrow so that any io.Writer-backed logger, or a test
// double, can adapt to it with one method.
type Logger interface {
	Log(msg string)
}

var (
	mu     sync.RWMutex
	level               = LevelWarn
	logger Logger       = &defaultLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
)

// UseLogger sets l as the active logger and returns a function that restores
// the previous logger. It is mainly useful for tests.
func UseLogger(l Logger) (undo func()) {
	Flush()
	mu.Lock()
	defer mu.Unlock()
	old := logger
	logger = l
	return func() {
		mu.Lock()
		defer mu.Unlock()
		logger = old
	}
}

// SetLevel sets the active logging level.
func SetLevel(lvl Level) {
	mu.Lock()
	defer mu.Unlock()
	level = lvl
}

// GetLevel returns the active logging level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// DebugEnabled reports whether debug messages are currently printed. Hot
// paths can check this before formatting an expensive message.
func DebugEnabled() bool {
	return GetLevel() == LevelDebug
}

// Debug prints a debug-level message when debug logging is enabled.
func Debug(format string, a ...interface{}) {
	if !DebugEnabled() {
		return
	}
	printMsg("DEBUG", format, a...)
}

// Warn prints a warning message immediately, unaggregated.
func Warn(format string, a ...interface{}) {
	printMsg("WARN", format, a...)
}

var (
	errmu   sync.Mutex
	erragg  = map[string]*errorReport{}
	errrate = time.Minute
	erron   bool
)

type errorReport struct {
	first time.Time
	err   error
	count uint64
}

// defaultErrorLimit caps how many occurrences of the same error are
// counted; once the count passes it, further occurrences are discarded
// uncounted and the flushed line reports "200+" additional occurrences.
const defaultErrorLimit = 200

// Error reports a recoverable failure such as a dropped HTTP batch. Errors
// with the same format string are aggregated and flushed at most once per
// errrate, so a collector that is down does not turn into a log storm.
func Error(format string, a ...interface{}) {
	if reachedLimit(format) {
		return
	}
	errmu.Lock()
	defer errmu.Unlock()
	report, ok := erragg[format]
	if !ok {
		report = &errorReport{err: fmt.Errorf(format, a...), first: time.Now()}
		erragg[format] = report
	}
	report.count++
	if errrate == 0 {
		flushLocked()
		return
	}
	if !erron {
		erron = true
		time.AfterFunc(errrate, Flush)
	}
}

func reachedLimit(key string) bool {
	errmu.Lock()
	defer errmu.Unlock()
	e, ok := erragg[key]
	return ok && e.count > defaultErrorLimit
}

// Flush flushes and resets all aggregated errors to the logger.
func Flush() {
	errmu.Lock()
	defer errmu.Unlock()
	flushLocked()
}

func flushLocked() {
	for _, report := range erragg {
		var extra string
		switch {
		case report.count > defaultErrorLimit:
			extra = fmt.Sprintf(", %d+ additional occurrences skipped (first: %s)", defaultErrorLimit, report.first.Format(time.RFC822))
		case report.count > 1:
			extra = fmt.Sprintf(", %d additional occurrences skipped (first: %s)", report.count-1, report.first.Format(time.RFC822))
		default:
			extra = fmt.Sprintf(" (occurred: %s)", report.first.Format(time.RFC822))
		}
		printMsg("ERROR", "%v%s", report.err, extra)
	}
	for k := range erragg {
		delete(erragg, k)
	}
	erron = false
}

func printMsg(lvl, format string, a ...interface{}) {
	msg := fmt.Sprintf("%s %s: %s", prefixMsg, lvl, fmt.Sprintf(format, a...))
	mu.RLock()
	defer mu.RUnlock()
	logger.Log(msg)
}

type defaultLogger struct{ l *log.Logger }

func (p *defaultLogger) Log(msg string) { p.l.Print(msg) }

// DiscardLogger discards every call to Log.
type DiscardLogger struct{}

// Log implements Logger.
func (DiscardLogger) Log(string) {}

// RecordLogger records every call to Log and makes it available via Logs.
// Tests use it to assert on what the tracer would have printed.
type RecordLogger struct {
	mu     sync.Mutex
	logs   []string
	ignore []string
}

// Ignore adds substrings that, if present in a message, suppress recording.
func (r *RecordLogger) Ignore(substrings ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignore = append(r.ignore, substrings...)
}

// Log implements Logger.
func (r *RecordLogger) Log(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ignored := range r.ignore {
		if strings.Contains(msg, ignored) {
			return
		}
	}
	r.logs = append(r.logs, msg)
}

// Logs returns the ordered list of logs recorded so far.
func (r *RecordLogger) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}
