package types

import "log"

// Logger is the collaborator interface the core reports diagnostics
// through. Its methods use Printf-style signatures; a *log.Logger is
// plugged in through the StdLogger adapter below.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// NopLogger discards every message. It is the default when a Config is
// constructed without an explicit Logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}

// StdLogger adapts the standard library logger to the Logger interface,
// tagging each line with its level.
type StdLogger struct {
	*log.Logger
}

func (l StdLogger) Debugf(format string, args ...interface{}) { l.Printf("DEBUG "+format, args...) }
func (l StdLogger) Infof(format string, args ...interface{})  { l.Printf("INFO  "+format, args...) }
func (l StdLogger) Warnf(format string, args ...interface{})  { l.Printf("WARN  "+format, args...) }
