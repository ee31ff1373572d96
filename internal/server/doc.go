// Package server exposes the integrator over HTTP.
//
// Endpoints:
//
//	GET /v1/integrate  one integration at a fixed sample count
//	GET /v1/converge   the refinement loop, optionally with its trace
//	GET /v1/functions  the registered integrands
//	GET /health        liveness
//	GET /metrics       Prometheus exposition
//
// Every request goes through SecurityMiddleware and the request metrics
// middleware. Integrations run under a per-request timeout and are bounded
// by the limits in SecurityConfig.
package server
