package output

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger   *log.Logger
	loggerMu sync.Mutex
	logLevel = log.InfoLevel
	logOut   io.Writer = os.Stderr

	// JSONMode controls whether output should be JSON-formatted.
	JSONMode bool

	// Verbose controls debug-level output.
	Verbose bool
)

// Init configures the global logger. The root command calls it from
// PersistentPreRun.
func Init(verbose bool, jsonMode bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	Verbose = verbose
	JSONMode = jsonMode
	if verbose {
		logLevel = log.DebugLevel
	} else {
		logLevel = log.InfoLevel
	}
	logger = newLogger(logOut)
}

// SetOutput redirects log output, returning a func that restores the
// previous writer.
func SetOutput(w io.Writer) (restore func()) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	prev := logOut
	logOut = w
	logger = newLogger(w)
	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		logOut = prev
		logger = newLogger(prev)
	}
}

// Writer returns the current log destination.
func Writer() io.Writer {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logOut
}

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           logLevel,
	})
	if NoColor() {
		l.SetStyles(plainStyles())
	}
	return l
}

func getLogger() *log.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger(logOut)
	}
	return logger
}

// Info prints an informational message.
func Info(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Info(msg, keyvals...)
}

// Warn prints a warning message.
func Warn(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Warn(msg, keyvals...)
}

// Error prints an error message.
func Error(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Error(msg, keyvals...)
}

// Debug prints a debug message (only visible with -v).
func Debug(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Debug(msg, keyvals...)
}

// Success prints a success message with a checkmark prefix.
func Success(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	if NoColor() {
		getLogger().Info("[OK] "+msg, keyvals...)
	} else {
		getLogger().Info("✅ "+msg, keyvals...)
	}
}

// Fail prints a failure message with an X prefix.
func Fail(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	if NoColor() {
		getLogger().Error("[FAIL] "+msg, keyvals...)
	} else {
		getLogger().Error("❌ "+msg, keyvals...)
	}
}

// Step prints a step progress message.
func Step(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	if NoColor() {
		getLogger().Info(">> "+msg, keyvals...)
	} else {
		getLogger().Info("▸ "+msg, keyvals...)
	}
}

// Zone announces the zone about to be attempted.
func Zone(zone string, n, total int) {
	if JSONMode {
		return
	}
	getLogger().Info(StyleTitle.Render("Trying zone "+zone), "attempt", n, "of", total)
}
