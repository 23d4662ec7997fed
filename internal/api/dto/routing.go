// Package dto holds the JSON shapes internal/api/handlers puts on the
// wire, kept separate from internal/routing/model so the HTTP contract can
// evolve independently of the solver's internal value types.
package dto

import (
	"example.com/vrp-routing-service/internal/routing/builder"
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
)

// RouteResult is one vehicle's planned route in the response envelope.
type RouteResult struct {
	Route         []int `json:"routes"`
	TotalDuration int64 `json:"total_duration"`
}

// RoutingEnvelope is the success shape for POST /v1/routing.
type RoutingEnvelope struct {
	Status string        `json:"status"`
	Data   []RouteResult `json:"data"`
}

// FromRoutingResponses builds the success envelope from the core's
// per-vehicle responses.
func FromRoutingResponses(rs []model.RoutingResponse) RoutingEnvelope {
	data := make([]RouteResult, len(rs))
	for i, r := range rs {
		data[i] = RouteResult{Route: r.Route, TotalDuration: r.TotalDuration}
	}
	return RoutingEnvelope{Status: "success", Data: data}
}

// ValidationErrorBody is the 400 shape for a builder.ValidationError.
type ValidationErrorBody struct {
	Code      string `json:"code"`
	Errors    string `json:"errors"`
	Invariant string `json:"invariant"`
}

// NewValidationErrorBody builds a ValidationErrorBody from e.
func NewValidationErrorBody(e *builder.ValidationError) ValidationErrorBody {
	return ValidationErrorBody{Code: "VALIDATION_ERROR", Errors: e.Message, Invariant: e.Invariant}
}

// SolveErrorBody is the 500 shape for a cpengine.NoSolutionError.
type SolveErrorBody struct {
	Code             string `json:"code"`
	Errors           string `json:"errors"`
	TimeLimitSeconds int64  `json:"time_limit_seconds"`
}

// NewSolveErrorBody builds a SolveErrorBody from e.
func NewSolveErrorBody(e *cpengine.NoSolutionError) SolveErrorBody {
	return SolveErrorBody{Code: "NO_SOLUTION", Errors: e.Error(), TimeLimitSeconds: e.TimeLimitSeconds}
}

// InternalErrorBody is the fallback 500 shape for an error none of the
// pipeline's typed errors matched.
type InternalErrorBody struct {
	Code   string `json:"code"`
	Errors string `json:"errors"`
}

// NewInternalErrorBody builds the fallback body. It never includes err's
// text: an unrecognised error may carry detail unsafe to hand to a caller.
func NewInternalErrorBody() InternalErrorBody {
	return InternalErrorBody{Code: "INTERNAL_ERROR", Errors: "internal server error"}
}
