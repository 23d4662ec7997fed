// Package rpc defines the routing core's wire-format-agnostic contract.
// Service.Routing is the one operation the core exposes; internal/api is
// this repository's only mounted transport for it, but nothing in this
// package or its implementation assumes JSON, HTTP, or any particular
// codec, so a second transport could be mounted without touching the core.
package rpc

import (
	"context"

	"example.com/vrp-routing-service/internal/routing"
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
)

// Service is the routing core's public contract.
type Service interface {
	Routing(ctx context.Context, req model.RoutingModel) ([]model.RoutingResponse, error)
}

// service binds a CP engine to the routing pipeline. It holds no
// per-request state; every call to Routing is independent.
type service struct {
	engine cpengine.Engine
}

// New returns a Service backed by engine.
func New(engine cpengine.Engine) Service {
	return &service{engine: engine}
}

// Routing runs req through builder validation, rewriting, binding, solving
// and projection, returning one RoutingResponse per vehicle.
//
// ctx is accepted for interface symmetry with the rest of the pipeline's
// blocking calls; the underlying solve does not yet observe cancellation,
// since CP-SAT's own wall-clock limit (spec.md §4.5 step 10) already
// bounds every call.
func (s *service) Routing(ctx context.Context, req model.RoutingModel) ([]model.RoutingResponse, error) {
	return routing.Solve(s.engine, req)
}
