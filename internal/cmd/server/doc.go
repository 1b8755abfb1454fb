// Package serverrun starts the switflake server: it claims the node id,
// opens the runtime, and serves the HTTP API until the context ends.
package serverrun
