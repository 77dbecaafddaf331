// Package api defines the request and response types of the FreqFlow HTTP API.
//
// # API Overview
//
// FreqFlow provides a RESTful API for:
//   - Frequency analysis of submitted text (tokenize, count, report)
//   - Affinity scoring of documents against a reference corpus
//   - Reference model inspection and reload
//   - Health monitoring and metrics
//
// # Authentication
//
// When API keys are configured, endpoints under /api/v1 require the
// X-API-Key header:
//
//	X-API-Key: your-api-key
//
// Health and version endpoints are always reachable without credentials.
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
//
// Prometheus metrics are served on a separate port (default 9091) under
// /metrics.
//
// # Endpoints
//
//	POST /api/v1/analyze       frequency analysis of inline text
//	POST /api/v1/score         affinity of a document against a reference
//	GET  /api/v1/model         current reference model
//	POST /api/v1/model/reload  re-read the reference table from disk
//	GET  /api/v1/config        sanitized effective configuration
//	GET  /health, /healthz, /ready, /version
package api
