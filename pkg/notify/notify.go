// Package notify shows short transient messages to the person at the terminal.
// Diagnostics go to the zap logger instead.
package notify

import (
	"io"
	"os"
	"sync"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/charmbracelet/log"
)

var (
	mu       sync.Mutex
	notifier = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "supernova",
		ReportTimestamp: false,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Init redirects notifications to w
func Init(w io.Writer, verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	notifier = newLogger(w, verbose)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return notifier
}

// Errors shows every message carried by err, one notification each
func Errors(err error) {
	if err == nil {
		return
	}
	l := current()
	for _, msg := range apperrors.Messages(err) {
		l.Error(msg)
	}
}

// Success shows a confirmation
func Success(msg string, keyvals ...interface{}) {
	current().Info(msg, keyvals...)
}

// Warn shows a non-fatal problem
func Warn(msg string, keyvals ...interface{}) {
	current().Warn(msg, keyvals...)
}

// Debug is shown only in verbose mode
func Debug(msg string, keyvals ...interface{}) {
	current().Debug(msg, keyvals...)
}
