// Package kubeerrors classifies failures per spec §7's taxonomy
// (Transient, Authorization, Parse, Configuration, Panic) and carries the
// process exit codes for the fatal startup cases. Grounded on the teacher's
// runtime/pkg/osmo_errors pattern of named exit codes plus typed errors
// (TimeoutError) and a global SetExitCode used only at process boundaries.
package kubeerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kubetui/kubetui/internal/bus"
)

// Exit codes returned by cmd/kubetui on fatal startup failures (spec §7:
// "Fatal startup errors are printed to stderr with a non-zero exit code").
const (
	ExitOK                = 0
	ExitBadKubeconfig     = 10
	ExitUnknownContext    = 11
	ExitNoContexts        = 12
	ExitConfigFileInvalid = 13
	ExitPanic             = 14
)

// ConfigError marks a fatal, startup-time configuration problem (spec §7:
// "Configuration ... fatal at startup").
type ConfigError struct {
	Code int
	Msg  string
}

func (e *ConfigError) Error() string { return e.Msg }

func NewConfigError(code int, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// SyntaxError marks a log-query parse failure (spec §6's log query language).
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

// RegexError wraps a regexp.Compile failure encountered while parsing a log
// query attribute.
type RegexError struct {
	Pattern string
	Cause   error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regular expression %q: %v", e.Pattern, e.Cause)
}

func (e *RegexError) Unwrap() error { return e.Cause }

// Classify maps a transport-level error (as returned by a poller/streamer's
// HTTP call) onto spec §7's taxonomy so callers can decide on retry policy
// without re-deriving it at every call site.
func Classify(err error) bus.ErrorKind {
	if err == nil {
		return bus.ErrTransient
	}
	var se *SyntaxError
	var re *RegexError
	if errors.As(err, &se) || errors.As(err, &re) {
		return bus.ErrParse
	}
	var statusErr interface{ StatusCode() int }
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return bus.ErrAuthorization
		}
	}
	return bus.ErrTransient
}
