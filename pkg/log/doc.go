// Package log provides the structured logging facade used across switflake
// services.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Entries flow through a configurable
// formatter (text or JSON) to one or more outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"))
//	l.Info("server started", log.Str("http", ":8080"))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config with string
// level and format names, typically sourced from flags or environment.
//
// # Interop
//
// RedirectStdLog routes standard library log output (used by Pebble among
// others) through a Logger.
package log
