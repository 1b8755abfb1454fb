// Package httpserver exposes the ID service over HTTP/JSON.
//
// Identifiers travel as decimal strings in request and response bodies:
// they are 64-bit values and JSON numbers round through float64 in most
// clients.
//
// Endpoints:
//
//	GET  /v1/healthz       service health
//	GET  /v1/node          node identity, claim, slot occupancy
//	POST /v1/ids/generate  mint a batch of identifiers
//	POST /v1/ids/decode    unpack one identifier
//	POST /v1/ids/inspect   decode a batch, optionally CEL-filtered
//	GET  /metrics          Prometheus exposition
package httpserver
