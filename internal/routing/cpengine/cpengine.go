// Package cpengine declares the constraint-programming engine contract the
// binder (package bind) programs against. The core never imports a concrete
// solver directly; it depends only on these interfaces, so the concrete CP
// engine is an external collaborator that can be swapped without touching
// C1-C6. Package cpsat is the shipped implementation, built on Google
// OR-Tools' CP-SAT.
package cpengine

import "time"

// Node is a physical location in the (possibly rewritten) duration matrix.
type Node = int

// Index is an engine-internal position that may or may not correspond
// one-to-one with a Node: an index manager is free to allocate more than
// one index per node so that several vehicles can share a physical depot
// without violating a single-visit-per-node assumption inside the engine.
type Index = int64

// TransitCallback returns the cost of travelling directly from one node to
// another.
type TransitCallback func(from, to Node) int64

// UnaryTransitCallback returns a per-node cost or quantity, such as a
// capacity demand.
type UnaryTransitCallback func(node Node) int64

// IndexManager translates between the engine's internal index space and the
// caller's node space, and reports each vehicle's start/end index.
type IndexManager interface {
	IndexToNode(index Index) Node
	NodeToIndex(node Node) Index
	Start(vehicle int) Index
	End(vehicle int) Index
	NumIndices() int
}

// PickupDeliveryPolicy constrains how a vehicle may interleave its assigned
// pickups and deliveries.
type PickupDeliveryPolicy int

const (
	PolicyUnset PickupDeliveryPolicy = iota
	PolicyFIFO
	PolicyLIFO
)

// FirstSolutionStrategy selects the construction heuristic used to find an
// initial feasible solution.
type FirstSolutionStrategy int

const (
	PathCheapestArc FirstSolutionStrategy = iota
)

// LocalSearchMetaheuristic selects the improvement strategy applied after
// the first solution is found.
type LocalSearchMetaheuristic int

const (
	GuidedLocalSearch LocalSearchMetaheuristic = iota
)

// SearchParameters configures a solve.
type SearchParameters struct {
	FirstSolutionStrategy FirstSolutionStrategy
	Metaheuristic         LocalSearchMetaheuristic
	TimeLimit             time.Duration
}

// IntVar is an opaque handle to an engine-native integer variable.
type IntVar interface{}

// IntervalVar is an opaque handle to an engine-native fixed-duration
// interval variable, such as a vehicle break.
type IntervalVar interface{}

// Constraint is an opaque handle to a constraint registered with the
// underlying solver.
type Constraint interface{}

// Solver is the constraint solver underlying a Model, exposing the handful
// of primitives the binder needs to wire pickup-delivery ordering and
// vehicle breaks.
type Solver interface {
	MakeEquality(a, b IntVar) Constraint
	MakeLessOrEqual(a, b IntVar) Constraint
	MakeSum(a IntVar, c int64) IntVar
	MakeFixedDurationIntervalVar(start IntVar, duration int64, name string) IntervalVar
	AddConstraint(c Constraint)
}

// Dimension is a cumulative quantity (time, capacity, ...) tracked along
// every vehicle's route.
type Dimension interface {
	CumulVar(index Index) IntVar
	SetRange(v IntVar, lo, hi int64)
	RemoveInterval(v IntVar, start, end int64)
	SetBreakIntervalsOfVehicle(intervals []IntervalVar, vehicle int, nodeVisitTransit []int64)
}

// Assignment is a solution: a value for every variable the model created.
type Assignment interface {
	Value(v IntVar) int64
	Min(v IntVar) int64
}

// Model is a single vehicle-routing problem instance bound to an
// IndexManager. The binder calls these methods in the order documented in
// the constraint-binder component; Model implementations are not required
// to tolerate calls out of that order.
type Model interface {
	RegisterTransitCallback(cb TransitCallback) int
	RegisterUnaryTransitCallback(cb UnaryTransitCallback) int
	SetArcCostEvaluatorOfAllVehicles(callbackIndex int)

	AddDimension(transitCallbackIndex int, slack, capacity int64, startCumulToZero bool, name string) Dimension
	AddDimensionWithVehicleCapacity(demandCallbackIndex int, slack int64, vehicleCapacities []int64, startCumulToZero bool, name string) Dimension
	GetMutableDimension(name string) Dimension

	AddPickupAndDelivery(pickup, delivery Index)
	SetPickupAndDeliveryPolicyOfAllVehicles(policy PickupDeliveryPolicy)

	AddDisjunction(indices []Index, penalty int64)

	AddVariableMinimizedByFinalizer(v IntVar)

	Start(vehicle int) Index
	End(vehicle int) Index
	NextVar(index Index) IntVar
	VehicleVar(index Index) IntVar
	IsVehicleUsed(a Assignment, vehicle int) bool
	IsEnd(index Index) bool

	Solver() Solver
	SolveWithParameters(params SearchParameters) (Assignment, error)
}

// Engine constructs index managers and models bound to them. A concrete
// engine (package cpsat) implements this to plug into the binder.
type Engine interface {
	NewIndexManagerSingleDepot(nodeCount, vehicleCount int, depot Node) IndexManager
	NewIndexManagerStartEnd(nodeCount, vehicleCount int, starts, ends []Node) IndexManager
	NewModel(manager IndexManager) Model
}
