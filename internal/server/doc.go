// Package server runs the optional local HTTP endpoint of the screensaver.
//
// It is disabled unless METRICS_ENABLED is set and listens on loopback by
// default. Routes:
//
//   - GET /metrics: Prometheus metrics
//   - GET /healthz: liveness plus scan state
//   - GET /status: current item, scan progress, pause state and volume
//   - GET /version: build information
//
// Nothing served here can change the session.
package server
