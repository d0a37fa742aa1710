package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Session returns a component logger tagged with a session identity so
// concurrent sessions can be told apart in a shared log file.
func Session(name, sessionID string) zerolog.Logger {
	l := Component(name)
	if sessionID == "" {
		return l
	}
	return l.With().Str("session", sessionID).Logger()
}
