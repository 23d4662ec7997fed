// Package model defines the pure value types that flow through the routing
// pipeline: the caller-facing problem description (RoutingModel), the
// solver-facing rewritten form (RoutingProblem), and the response shape
// returned to callers.
package model

import "sort"

// OpenRoute is the sentinel used in a StartEndPair to mean "this vehicle's
// start or end is not fixed to a node; let the solver choose a dummy node
// and drop the leg to/from it at zero cost".
const OpenRoute int32 = -1

// InfiniteTime stands in for "no upper bound" on a time dimension.
const InfiniteTime int64 = 1<<63 - 1

// DurationMatrix is a square, non-negative travel-duration matrix in
// arbitrary time units. DurationMatrix[i][j] is the cost of travelling
// directly from node i to node j.
type DurationMatrix [][]int64

// Size returns the number of nodes described by the matrix.
func (m DurationMatrix) Size() int { return len(m) }

// DepotConfig is a closed sum type: exactly SingleDepot or StartEndPair.
// The unexported marker method keeps external packages from adding new
// variants, matching the depot/start-end distinction the solver contract
// requires.
type DepotConfig interface {
	isDepotConfig()
}

// SingleDepot means every vehicle starts and ends at the same node.
type SingleDepot struct {
	Depot int32
}

func (SingleDepot) isDepotConfig() {}

// StartEndPair gives each vehicle its own start and end node. A node value
// of OpenRoute means that end of the vehicle's route is unconstrained.
type StartEndPair struct {
	Starts []int32
	Ends   []int32
}

func (StartEndPair) isDepotConfig() {}

// PickupDelivery pairs a pickup node with the delivery node it must precede,
// on the same vehicle.
type PickupDelivery struct {
	Pickup   int
	Delivery int
}

// Equal reports structural equality.
func (p PickupDelivery) Equal(o PickupDelivery) bool {
	return p.Pickup == o.Pickup && p.Delivery == o.Delivery
}

// PickupDeliveryPolicy constrains the order in which a vehicle may visit the
// pickups and deliveries assigned to it.
type PickupDeliveryPolicy int

const (
	// PolicyUnset leaves ordering unconstrained beyond pickup-before-delivery.
	PolicyUnset PickupDeliveryPolicy = iota
	// PolicyFIFO requires pickups and deliveries to interleave first-in-first-out.
	PolicyFIFO
	// PolicyLIFO requires pickups and deliveries to interleave last-in-first-out.
	PolicyLIFO
)

// PickupDeliveryOption is the pickup/delivery block of a RoutingModel.
type PickupDeliveryOption struct {
	Pairs    []PickupDelivery
	Policy   PickupDeliveryPolicy
	HasPolicy bool
}

// TimeWindow is a closed interval [Start, End] a node (or a vehicle break)
// must fall within.
type TimeWindow struct {
	Start int64
	End   int64
}

// Equal reports structural equality.
func (w TimeWindow) Equal(o TimeWindow) bool {
	return w.Start == o.Start && w.End == o.End
}

// Less orders windows lexicographically by (Start, End), matching the
// ordering the solver relies on when looking for gaps between consecutive
// windows on the same node.
func (w TimeWindow) Less(o TimeWindow) bool {
	if w.Start != o.Start {
		return w.Start < o.Start
	}
	return w.End < o.End
}

// SortTimeWindows sorts windows in place using TimeWindow's total order.
func SortTimeWindows(ws []TimeWindow) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Less(ws[j]) })
}

// TimeWindowOption gives every node a (possibly empty) list of admissible
// time windows. A node with no entry, or an empty list, is unconstrained.
type TimeWindowOption struct {
	Windows [][]TimeWindow // indexed by node
}

// ServiceTimeOption gives every node a dwell time added to the transit cost
// of leaving it.
type ServiceTimeOption struct {
	ServiceTime []int64 // indexed by node
}

// Capacity carries per-vehicle capacities and per-node demands for a single
// capacity dimension.
type Capacity struct {
	Capacities []int64 // indexed by vehicle
	Demands    []int64 // indexed by node
}

// DropPenalties is a closed sum type: a node may be dropped from its route
// either for a single global penalty shared by every node, or for a penalty
// specific to that node. Exactly one of Global or PerNode is set.
type DropPenalties struct {
	Global  *int64
	PerNode []int64 // indexed by node
}

// IsVector reports whether the penalties are given per node rather than as a
// single global value.
func (d DropPenalties) IsVector() bool { return d.PerNode != nil }

// VehicleBreakTimeOption gives every vehicle a non-empty list of break
// windows it must be idle during at some point on its route.
type VehicleBreakTimeOption struct {
	BreakTime [][]TimeWindow // indexed by vehicle
}

// RoutingModel is the complete, caller-facing description of a vehicle
// routing problem, before any solver-internal rewriting.
type RoutingModel struct {
	DurationMatrix   DurationMatrix
	Depot            DepotConfig
	NumVehicles      int32
	TimeLimitSeconds int64

	Capacity         *Capacity
	PickupDelivery   *PickupDeliveryOption
	TimeWindows      *TimeWindowOption
	ServiceTime      *ServiceTimeOption
	DropPenalties    *DropPenalties
	VehicleBreakTime *VehicleBreakTimeOption
}

// NewRoutingModel returns a RoutingModel with the required defaults applied:
// a single vehicle routed through a single depot at node 0, with a one
// second search time limit.
func NewRoutingModel(matrix DurationMatrix) RoutingModel {
	return RoutingModel{
		DurationMatrix:   matrix,
		Depot:            SingleDepot{Depot: 0},
		NumVehicles:      1,
		TimeLimitSeconds: 1,
	}
}

// RoutingProblem is a RoutingModel after pre-solve rewriting: the matrix may
// have grown to accommodate dummy end nodes and duplicated shared endpoints,
// and IndexMap records, for every duplicated node, which original node it
// stands in for. Nodes present in the original model and dummy end nodes
// are not present in IndexMap; callers should treat a missing entry as
// "this node is its own original".
type RoutingProblem struct {
	RoutingModel
	IndexMap map[int]int
}

// NewRoutingProblem wraps a RoutingModel for rewriting, with an empty index
// map.
func NewRoutingProblem(m RoutingModel) *RoutingProblem {
	return &RoutingProblem{RoutingModel: m, IndexMap: map[int]int{}}
}

// OriginalNode resolves a (possibly rewritten) node back to the node index
// the caller's RoutingModel used.
func (p *RoutingProblem) OriginalNode(n int) int {
	if o, ok := p.IndexMap[n]; ok {
		return o
	}
	return n
}

// RoutingResponse is one vehicle's planned route, expressed in the caller's
// original node numbering, along with the total duration (travel plus
// service time) accrued along it.
type RoutingResponse struct {
	Route         []int
	TotalDuration int64
}
