package cpsat

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"example.com/vrp-routing-service/internal/routing/cpengine"
)

// solver adapts cpmodel.Builder's linear-constraint and interval-variable
// primitives to the cpengine.Solver contract. Every constraint it builds is
// registered with the underlying Builder immediately; AddConstraint exists
// only to satisfy the interface for backends that defer registration.
type solver struct {
	b *cpmodel.Builder
}

func (s *solver) MakeEquality(a, b cpengine.IntVar) cpengine.Constraint {
	return s.b.AddEquality(toLinearArgument(a), toLinearArgument(b))
}

func (s *solver) MakeLessOrEqual(a, b cpengine.IntVar) cpengine.Constraint {
	return s.b.AddLessOrEqual(toLinearArgument(a), toLinearArgument(b))
}

func (s *solver) MakeSum(a cpengine.IntVar, c int64) cpengine.IntVar {
	return cpmodel.NewLinearExpr().Add(toLinearArgument(a)).AddConstant(c)
}

func (s *solver) MakeFixedDurationIntervalVar(start cpengine.IntVar, duration int64, name string) cpengine.IntervalVar {
	iv := s.b.NewFixedSizeIntervalVar(toLinearArgument(start), duration).WithName(name)
	return intervalHandle{iv: iv, duration: duration}
}

func (s *solver) AddConstraint(cpengine.Constraint) {}
