// Package httpserver provides the HTTP scaffolding for long-running
// services in this module: a chi router with standard middleware,
// liveness/readiness/drain endpoints for load-balancer coordination,
// and graceful shutdown.
package httpserver
