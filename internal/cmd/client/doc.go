// Package client contains Cobra CLI commands that talk to a running
// switflake server over its HTTP API.
package client
