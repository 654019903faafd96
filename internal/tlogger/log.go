package tlogger

import (
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// hlog is rebuilt whenever the output or the level changes.
var (
	mu   sync.Mutex
	hlog log.Logger

	out io.Writer = os.Stdout
	lvl           = "info"
)

var levels = map[string]level.Option{
	"debug": level.AllowDebug(),
	"info":  level.AllowInfo(),
	"warn":  level.AllowWarn(),
	"error": level.AllowError(),
	"all":   level.AllowAll(),
}

func init() {
	rebuild()
}

// rebuild must be called with mu held, except from init.
func rebuild() {
	opt, ok := levels[lvl]
	if !ok {
		opt = level.AllowInfo()
	}
	l := log.NewLogfmtLogger(log.NewSyncWriter(out))
	// six frames up from the valuer: bindValues, this context, the level
	// filter, the level prefix and the Info/Debug/... helper
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6))
	hlog = level.NewFilter(l, opt)
}

// ApplyLogLevel sets the minimum level: debug, info, warn, error or all.
// Unknown values fall back to info.
func ApplyLogLevel(l string) {
	mu.Lock()
	defer mu.Unlock()
	lvl = l
	rebuild()
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

func logger() log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return hlog
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(logger()).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(logger()).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(logger()).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(logger()).Log(keyvals...)
}

// Fatal add a log entry w/ Error level and exits
func Fatal(keyvals ...interface{}) {
	debug.PrintStack()
	level.Error(logger()).Log(keyvals...)
	os.Exit(1)
}
