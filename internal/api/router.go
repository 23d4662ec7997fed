// Package api is the HTTP composition root: it wires handlers to the
// routing service and mounts them behind request-ID and logging
// middleware.
package api

import (
	"net/http"

	"example.com/vrp-routing-service/internal/api/handlers"
	"example.com/vrp-routing-service/internal/platform/logging"
	"example.com/vrp-routing-service/internal/rpc"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler ready to be served.
func NewRouter(service rpc.Service, log *logging.Logger) http.Handler {
	mux := http.NewServeMux()

	routingHandler := &handlers.RoutingHandler{Service: service, Log: log}

	mux.HandleFunc("/health", handlers.Health(log))
	mux.HandleFunc("/v1/routing", routingHandler.Routing)

	return withRequestID(loggingMiddleware(log)(mux))
}
