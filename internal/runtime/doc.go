// Package runtime wires storage, configuration, the node claim, and the ID
// generator into a single-node instance shared by servers and services.
package runtime
