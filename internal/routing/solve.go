// Package routing wires the routing pipeline's stages together: ingest
// produces a RoutingModel, the builder validates it, the rewriter
// normalises it for the CP engine, the binder programs the engine, the
// engine solves, and the projector turns the assignment back into routes.
package routing

import (
	"fmt"

	"example.com/vrp-routing-service/internal/routing/bind"
	"example.com/vrp-routing-service/internal/routing/builder"
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
	"example.com/vrp-routing-service/internal/routing/project"
	"example.com/vrp-routing-service/internal/routing/rewrite"
)

// Solve runs a validated RoutingModel through C3-C6 against engine and
// returns one RoutingResponse per vehicle. It owns no state beyond this
// call: every RoutingProblem, index manager and solver handle it creates is
// local to this invocation.
func Solve(engine cpengine.Engine, m model.RoutingModel) ([]model.RoutingResponse, error) {
	problem, err := builder.FromModel(m).Build()
	if err != nil {
		return nil, fmt.Errorf("routing: validate: %w", err)
	}

	openEnds := rewrite.CaptureOpenEnds(problem, int(problem.NumVehicles))

	if err := rewrite.Rewrite(problem); err != nil {
		return nil, fmt.Errorf("routing: rewrite: %w", err)
	}

	engineModel, im := bind.Bind(engine, problem)

	assignment, err := engineModel.SolveWithParameters(bind.SearchParameters(problem))
	if err != nil {
		return nil, fmt.Errorf("routing: solve: %w", err)
	}

	return project.Project(engineModel, im, assignment, problem, openEnds), nil
}
