// Package ids implements the ID service shared by the HTTP surface and the
// CLI. It multiplexes callers onto the generator's 8 sequencing slots
// through a checkout pool of long-lived sessions, so concurrent requests
// share slots instead of churning them, and exposes decode and CEL-filtered
// inspection of identifiers.
package ids
