package cpsat

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"example.com/vrp-routing-service/internal/routing/cpengine"
)

// assignment wraps a solved CP-SAT response. Every variable in this backend
// is fully determined once the solver returns OPTIMAL or FEASIBLE, so Min
// and Value agree.
type assignment struct {
	resp *cmpb.CpSolverResponse
}

func (a *assignment) Value(v cpengine.IntVar) int64 {
	return cpmodel.SolutionIntegerValue(a.resp, toLinearArgument(v))
}

func (a *assignment) Min(v cpengine.IntVar) int64 {
	return cpmodel.SolutionIntegerValue(a.resp, toLinearArgument(v))
}
