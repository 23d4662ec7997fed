package cpsat

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"example.com/vrp-routing-service/internal/routing/cpengine"
)

// intervalHandle boxes a CP-SAT interval variable together with the fixed
// duration it was created with, since cpmodel.IntervalVar exposes no getter
// for it and the "Time" dimension needs each break's duration to reserve
// time for it at compile time.
type intervalHandle struct {
	iv       cpmodel.IntervalVar
	duration int64
}

// toLinearArgument unwraps a boxed cpengine.IntVar back into the
// cpmodel.LinearArgument it was built from. It is the seam between the
// engine-neutral interfaces the binder programs against and the concrete
// CP-SAT types those handles actually hold.
func toLinearArgument(v cpengine.IntVar) cpmodel.LinearArgument {
	switch t := v.(type) {
	case cpmodel.IntVar:
		return t
	case cpmodel.BoolVar:
		return t
	case *cpmodel.LinearExpr:
		return t
	default:
		panic("cpsat: value was not produced by this engine")
	}
}
