// Package timeouts defines shared server timeout constants.
//
// Outbound backend calls have no constant here: they inherit the deadline of
// the inbound request and whatever the injected HTTP client enforces.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown caps the final span flush when a process exits.
const TelemetryShutdown = 5 * time.Second
