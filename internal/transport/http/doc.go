// Package http serves the status listener that runs alongside a pipeline
// run: Prometheus metrics, a health check and the state of the current
// operation.
//
// Handlers stay thin. They read from the operations manager and the
// telemetry providers and render JSON with chi/render; failures are
// converted to API errors from the errors package.
//
//	GET /healthz   liveness, 503 when the last operation failed on storage or network
//	GET /status    snapshot of the current or last operation
//	GET /metrics   Prometheus exposition format
package http
