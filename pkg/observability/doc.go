// Package observability wires logging, metrics, health probes, and graceful
// shutdown.
//
// Logging uses logrus with a JSON formatter; every request-scoped log line
// carries the request id injected by the HTTP middleware. Metrics are
// Prometheus collectors registered on a private registry and served on the
// health port, next to the liveness and readiness probes.
package observability
