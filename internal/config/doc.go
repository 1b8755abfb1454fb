// Package config provides loading and environment overlay for switflake
// server configuration. It exposes a Default() baseline, a JSON Load, and a
// FromEnv overlay for SWITFLAKE_* variables.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/switflake.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
