// Package bind translates a rewritten RoutingProblem into calls against the
// solver-agnostic cpengine contract: index manager, transit callbacks,
// cumulative dimensions, pickup-and-delivery relationships, time windows,
// vehicle breaks, drop disjunctions, finalisers and search parameters.
package bind

import (
	"strconv"
	"time"

	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
)

const infiniteTime = model.InfiniteTime

// Bind wires p onto engine and returns the resulting Model along with the
// index manager it was built from, ready for SolveWithParameters.
func Bind(engine cpengine.Engine, p *model.RoutingProblem) (cpengine.Model, cpengine.IndexManager) {
	im := newIndexManager(engine, p)
	m := engine.NewModel(im)

	transitCB := m.RegisterTransitCallback(func(from, to cpengine.Node) int64 {
		cost := p.DurationMatrix[from][to]
		if p.ServiceTime != nil {
			cost += p.ServiceTime.ServiceTime[from]
		}
		return cost
	})
	m.SetArcCostEvaluatorOfAllVehicles(transitCB)

	addTimeDimension(m, transitCB, p)

	if p.Capacity != nil {
		addCapacityDimension(m, p)
	}

	if p.PickupDelivery != nil {
		addPickupDelivery(m, im, p)
	}

	if p.TimeWindows != nil {
		applyTimeWindows(m, im, p)
	}

	if p.VehicleBreakTime != nil {
		addVehicleBreaks(m, im, p)
	}

	if p.DropPenalties != nil {
		addDropPenalties(m, im, p)
	}

	timeDim := m.GetMutableDimension("Time")
	for v := 0; v < int(p.NumVehicles); v++ {
		m.AddVariableMinimizedByFinalizer(timeDim.CumulVar(m.Start(v)))
		m.AddVariableMinimizedByFinalizer(timeDim.CumulVar(m.End(v)))
	}

	return m, im
}

// SearchParameters returns the fixed search configuration the binder always
// applies, scaled to the problem's requested time limit.
func SearchParameters(p *model.RoutingProblem) cpengine.SearchParameters {
	return cpengine.SearchParameters{
		FirstSolutionStrategy: cpengine.PathCheapestArc,
		Metaheuristic:         cpengine.GuidedLocalSearch,
		TimeLimit:             time.Duration(p.TimeLimitSeconds) * time.Second,
	}
}

func newIndexManager(engine cpengine.Engine, p *model.RoutingProblem) cpengine.IndexManager {
	nodeCount := len(p.DurationMatrix)
	vehicles := int(p.NumVehicles)
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		return engine.NewIndexManagerSingleDepot(nodeCount, vehicles, cpengine.Node(d.Depot))
	case model.StartEndPair:
		starts := make([]cpengine.Node, len(d.Starts))
		ends := make([]cpengine.Node, len(d.Ends))
		for i, s := range d.Starts {
			starts[i] = cpengine.Node(s)
		}
		for i, e := range d.Ends {
			ends[i] = cpengine.Node(e)
		}
		return engine.NewIndexManagerStartEnd(nodeCount, vehicles, starts, ends)
	default:
		return engine.NewIndexManagerSingleDepot(nodeCount, vehicles, 0)
	}
}

func addTimeDimension(m cpengine.Model, transitCB int, p *model.RoutingProblem) {
	var slack int64
	if p.VehicleBreakTime != nil {
		for _, vehicleBreaks := range p.VehicleBreakTime.BreakTime {
			for _, w := range vehicleBreaks {
				if d := w.End - w.Start; d > slack {
					slack = d
				}
			}
		}
	}

	capacity := infiniteTime
	if p.TimeWindows != nil {
		var max int64
		for _, windows := range p.TimeWindows.Windows {
			for _, w := range windows {
				if w.End != infiniteTime && w.End > max {
					max = w.End
				}
			}
		}
		if max > 0 {
			capacity = max
		}
	}

	startCumulToZero := p.TimeWindows == nil
	m.AddDimension(transitCB, slack, capacity, startCumulToZero, "Time")
}

func addCapacityDimension(m cpengine.Model, p *model.RoutingProblem) {
	demandCB := m.RegisterUnaryTransitCallback(func(node cpengine.Node) int64 {
		return p.Capacity.Demands[node]
	})
	m.AddDimensionWithVehicleCapacity(demandCB, 0, p.Capacity.Capacities, true, "Capacity")
}

func addPickupDelivery(m cpengine.Model, im cpengine.IndexManager, p *model.RoutingProblem) {
	timeDim := m.GetMutableDimension("Time")
	solver := m.Solver()
	for _, pd := range p.PickupDelivery.Pairs {
		pickup := im.NodeToIndex(cpengine.Node(pd.Pickup))
		delivery := im.NodeToIndex(cpengine.Node(pd.Delivery))
		m.AddPickupAndDelivery(pickup, delivery)
		solver.AddConstraint(solver.MakeEquality(m.VehicleVar(pickup), m.VehicleVar(delivery)))
		solver.AddConstraint(solver.MakeLessOrEqual(timeDim.CumulVar(pickup), timeDim.CumulVar(delivery)))
	}

	if p.PickupDelivery.HasPolicy && p.PickupDelivery.Policy != model.PolicyUnset {
		m.SetPickupAndDeliveryPolicyOfAllVehicles(toEnginePolicy(p.PickupDelivery.Policy))
	}
}

func toEnginePolicy(policy model.PickupDeliveryPolicy) cpengine.PickupDeliveryPolicy {
	if policy == model.PolicyLIFO {
		return cpengine.PolicyLIFO
	}
	return cpengine.PolicyFIFO
}

func isTrivialWindow(w model.TimeWindow) bool {
	return w.Start == 0 && w.End == infiniteTime
}

func applyTimeWindows(m cpengine.Model, im cpengine.IndexManager, p *model.RoutingProblem) {
	timeDim := m.GetMutableDimension("Time")

	isEndpoint := endpointSet(p)

	for i, windows := range p.TimeWindows.Windows {
		if isEndpoint[i] {
			continue
		}
		applyWindowList(timeDim, im.NodeToIndex(cpengine.Node(i)), windows)
	}

	for v := 0; v < int(p.NumVehicles); v++ {
		startNode, startIsDummy := vehicleEndpoint(p, v, true)
		endNode, endIsDummy := vehicleEndpoint(p, v, false)
		if !startIsDummy && startNode < len(p.TimeWindows.Windows) {
			applyWindowList(timeDim, m.Start(v), p.TimeWindows.Windows[startNode])
		}
		if !endIsDummy && endNode < len(p.TimeWindows.Windows) {
			applyWindowList(timeDim, m.End(v), p.TimeWindows.Windows[endNode])
		}
	}
}

func applyWindowList(dim cpengine.Dimension, index cpengine.Index, windows []model.TimeWindow) {
	filtered := make([]model.TimeWindow, 0, len(windows))
	for _, w := range windows {
		if !isTrivialWindow(w) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return
	}
	sorted := append([]model.TimeWindow(nil), filtered...)
	model.SortTimeWindows(sorted)

	cumul := dim.CumulVar(index)
	dim.SetRange(cumul, sorted[0].Start, sorted[len(sorted)-1].End)
	for i := 0; i+1 < len(sorted); i++ {
		if gapEnd := sorted[i+1].Start; sorted[i].End < gapEnd {
			dim.RemoveInterval(cumul, sorted[i].End, gapEnd)
		}
	}
}

// endpointSet reports, per original node, whether that node is a depot or a
// per-vehicle start/end — those are handled by the vehicle loop instead of
// the plain per-node loop.
func endpointSet(p *model.RoutingProblem) map[int]bool {
	set := map[int]bool{}
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		set[int(d.Depot)] = true
	case model.StartEndPair:
		for _, s := range d.Starts {
			set[int(s)] = true
		}
		for _, e := range d.Ends {
			set[int(e)] = true
		}
	}
	return set
}

// vehicleEndpoint returns the original node backing vehicle v's start (or
// end). The rewriter has already resolved every open (-1) sentinel to a
// concrete dummy node by the time the binder runs, so both branches always
// report a real node.
func vehicleEndpoint(p *model.RoutingProblem, v int, start bool) (int, bool) {
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		return int(d.Depot), false
	case model.StartEndPair:
		if start {
			return int(d.Starts[v]), false
		}
		return int(d.Ends[v]), false
	default:
		return 0, true
	}
}

func addVehicleBreaks(m cpengine.Model, im cpengine.IndexManager, p *model.RoutingProblem) {
	timeDim := m.GetMutableDimension("Time")
	solver := m.Solver()

	nodeVisitTransit := make([]int64, len(p.DurationMatrix))
	if p.ServiceTime != nil {
		copy(nodeVisitTransit, p.ServiceTime.ServiceTime)
	}

	for v, breaks := range p.VehicleBreakTime.BreakTime {
		if len(breaks) == 0 {
			continue
		}
		sorted := append([]model.TimeWindow(nil), breaks...)
		model.SortTimeWindows(sorted)

		startCumul := timeDim.CumulVar(m.Start(v))
		intervals := make([]cpengine.IntervalVar, 0, len(sorted))
		for i, b := range sorted {
			duration := b.End - b.Start
			start := solver.MakeSum(startCumul, b.Start)
			intervals = append(intervals, solver.MakeFixedDurationIntervalVar(start, duration, breakName(v, i)))
		}
		timeDim.SetBreakIntervalsOfVehicle(intervals, v, nodeVisitTransit)
	}
}

func breakName(vehicle, index int) string {
	return "break_" + strconv.Itoa(vehicle) + "_" + strconv.Itoa(index)
}

func addDropPenalties(m cpengine.Model, im cpengine.IndexManager, p *model.RoutingProblem) {
	endpoints := endpointSet(p)
	n := len(p.DurationMatrix)
	for i := 0; i < n; i++ {
		if endpoints[i] {
			continue
		}
		if rowIsZero(p.DurationMatrix[i]) {
			continue
		}
		penalty := penaltyFor(p, i)
		m.AddDisjunction([]cpengine.Index{im.NodeToIndex(cpengine.Node(i))}, penalty)
	}
}

func penaltyFor(p *model.RoutingProblem, node int) int64 {
	if p.DropPenalties.IsVector() {
		return p.DropPenalties.PerNode[node]
	}
	return *p.DropPenalties.Global
}

func rowIsZero(row []int64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
