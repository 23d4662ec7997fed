// Package project turns a solved CP-engine assignment back into the
// caller-facing route responses: walking each vehicle's Next chain, mapping
// through the rewriter's index map, and trimming the dummy nodes the
// rewriter introduced for open routes.
package project

import (
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
	"example.com/vrp-routing-service/internal/routing/rewrite"
)

// Project walks the solved assignment and returns one RoutingResponse per
// vehicle, in vehicle order. Vehicles the engine reports as unused get the
// default empty slot. openEnds must reflect the depot configuration as it
// was before rewrite.Rewrite ran.
func Project(m cpengine.Model, im cpengine.IndexManager, a cpengine.Assignment, p *model.RoutingProblem, openEnds rewrite.OpenEnds) []model.RoutingResponse {
	n := int(p.NumVehicles)
	responses := make([]model.RoutingResponse, n)
	timeDim := m.GetMutableDimension("Time")

	for v := 0; v < n; v++ {
		if !m.IsVehicleUsed(a, v) {
			continue
		}

		route := walkRoute(m, a, v)
		dropLeading := v < len(openEnds.Start) && openEnds.Start[v]
		dropTrailing := v < len(openEnds.End) && openEnds.End[v]
		route = trimDummies(route, dropLeading, dropTrailing)

		responses[v] = model.RoutingResponse{
			Route:         mapToOriginalNodes(im, p, route),
			TotalDuration: a.Value(timeDim.CumulVar(m.End(v))),
		}
	}

	return responses
}

// walkRoute follows Next from Start(v) to End(v) inclusive, in index space.
func walkRoute(m cpengine.Model, a cpengine.Assignment, vehicle int) []cpengine.Index {
	route := []cpengine.Index{m.Start(vehicle)}
	idx := route[0]
	for !m.IsEnd(idx) {
		idx = cpengine.Index(a.Value(m.NextVar(idx)))
		route = append(route, idx)
	}
	return route
}

// trimDummies drops the leading route entry when the vehicle's start was an
// open sentinel and the trailing entry when its end was.
func trimDummies(route []cpengine.Index, dropLeading, dropTrailing bool) []cpengine.Index {
	if dropLeading && len(route) > 0 {
		route = route[1:]
	}
	if dropTrailing && len(route) > 0 {
		route = route[:len(route)-1]
	}
	return route
}

func mapToOriginalNodes(im cpengine.IndexManager, p *model.RoutingProblem, route []cpengine.Index) []int {
	out := make([]int, len(route))
	for i, idx := range route {
		out[i] = p.OriginalNode(im.IndexToNode(idx))
	}
	return out
}
