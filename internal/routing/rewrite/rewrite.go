// Package rewrite implements the pre-solve rewriter (C4): it resolves open
// route sentinels into concrete dummy nodes and materialises any node that
// would otherwise be shared by more than one pickup/delivery endpoint or by
// a depot/start/end, because the CP engine requires every node index to
// participate in at most one such role.
package rewrite

import "example.com/vrp-routing-service/internal/routing/model"

// OpenEnds records, per vehicle and before any rewriting, whether that
// vehicle's start or end was expressed as an open (-1) sentinel. The
// projector needs this to know which ends of a walked route are rewriter
// bookkeeping rather than part of the caller's route, since by the time a
// route is solved every sentinel has already been resolved to a concrete
// dummy node.
type OpenEnds struct {
	Start []bool // indexed by vehicle
	End   []bool // indexed by vehicle
}

// CaptureOpenEnds must be called before Rewrite, while p.Depot may still
// contain OpenRoute sentinels.
func CaptureOpenEnds(p *model.RoutingProblem, numVehicles int) OpenEnds {
	oe := OpenEnds{Start: make([]bool, numVehicles), End: make([]bool, numVehicles)}
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		open := d.Depot == model.OpenRoute
		for v := 0; v < numVehicles; v++ {
			oe.Start[v] = open
			oe.End[v] = open
		}
	case model.StartEndPair:
		for v := 0; v < numVehicles && v < len(d.Starts); v++ {
			oe.Start[v] = d.Starts[v] == model.OpenRoute
		}
		for v := 0; v < numVehicles && v < len(d.Ends); v++ {
			oe.End[v] = d.Ends[v] == model.OpenRoute
		}
	}
	return oe
}

// Rewrite mutates p in place: it grows the matrix and every parallel option
// block as needed and populates p.IndexMap so later components can present
// results in the caller's original node numbering. Rewrite assumes p has
// already passed builder validation; it does not re-validate shapes.
func Rewrite(p *model.RoutingProblem) error {
	seen := make(map[int]bool)

	if p.PickupDelivery != nil {
		for i := range p.PickupDelivery.Pairs {
			pair := &p.PickupDelivery.Pairs[i]
			pair.Pickup = resolveEndpoint(p, seen, pair.Pickup)
			pair.Delivery = resolveEndpoint(p, seen, pair.Delivery)
		}
	}

	if err := resolveDepotSentinels(p); err != nil {
		return err
	}

	if err := duplicateDepotIfShared(p, seen); err != nil {
		return err
	}

	return nil
}

// resolveEndpoint duplicates node `at` to the back if it has already been
// claimed by a previous pickup/delivery endpoint, otherwise marks it seen
// and returns it unchanged.
func resolveEndpoint(p *model.RoutingProblem, seen map[int]bool, at int) int {
	if seen[at] {
		return duplicateToBack(p, at)
	}
	seen[at] = true
	return at
}

func hasOpenRoute(p *model.RoutingProblem) bool {
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		return d.Depot == model.OpenRoute
	case model.StartEndPair:
		for _, s := range d.Starts {
			if s == model.OpenRoute {
				return true
			}
		}
		for _, e := range d.Ends {
			if e == model.OpenRoute {
				return true
			}
		}
	}
	return false
}

// resolveDepotSentinels appends a single shared dummy node, if any -1
// sentinel is present anywhere in the depot configuration, and replaces
// every sentinel with that node's index.
func resolveDepotSentinels(p *model.RoutingProblem) error {
	if !hasOpenRoute(p) {
		return nil
	}
	dummy := int32(appendDummyEnd(p))

	switch d := p.Depot.(type) {
	case model.SingleDepot:
		if d.Depot == model.OpenRoute {
			p.Depot = model.SingleDepot{Depot: dummy}
		}
	case model.StartEndPair:
		starts := append([]int32(nil), d.Starts...)
		ends := append([]int32(nil), d.Ends...)
		for i, s := range starts {
			if s == model.OpenRoute {
				starts[i] = dummy
			}
		}
		for i, e := range ends {
			if e == model.OpenRoute {
				ends[i] = dummy
			}
		}
		p.Depot = model.StartEndPair{Starts: starts, Ends: ends}
	}
	return nil
}

// duplicateDepotIfShared duplicates any depot/start/end node that also
// appears in the pickup/delivery seen set, then rewrites the depot
// configuration to reference the duplicate.
func duplicateDepotIfShared(p *model.RoutingProblem, seen map[int]bool) error {
	switch d := p.Depot.(type) {
	case model.SingleDepot:
		if seen[int(d.Depot)] {
			p.Depot = model.SingleDepot{Depot: int32(duplicateToBack(p, int(d.Depot)))}
		}
	case model.StartEndPair:
		starts := append([]int32(nil), d.Starts...)
		ends := append([]int32(nil), d.Ends...)
		for i, s := range starts {
			if seen[int(s)] {
				starts[i] = int32(duplicateToBack(p, int(s)))
			}
		}
		for i, e := range ends {
			if seen[int(e)] {
				ends[i] = int32(duplicateToBack(p, int(e)))
			}
		}
		p.Depot = model.StartEndPair{Starts: starts, Ends: ends}
	}
	return nil
}

// appendDummyEnd grows the matrix by one zero-cost row/column and extends
// every parallel option block by its neutral element, returning the new
// node's index.
func appendDummyEnd(p *model.RoutingProblem) int {
	n := len(p.DurationMatrix)
	newIdx := n

	for i := range p.DurationMatrix {
		p.DurationMatrix[i] = append(p.DurationMatrix[i], 0)
	}
	newRow := make([]int64, n+1)
	p.DurationMatrix = append(p.DurationMatrix, newRow)

	if p.Capacity != nil {
		p.Capacity.Demands = append(p.Capacity.Demands, 0)
	}
	if p.ServiceTime != nil {
		p.ServiceTime.ServiceTime = append(p.ServiceTime.ServiceTime, 0)
	}
	if p.TimeWindows != nil {
		p.TimeWindows.Windows = append(p.TimeWindows.Windows, []model.TimeWindow{{Start: 0, End: model.InfiniteTime}})
	}
	if p.DropPenalties != nil && p.DropPenalties.IsVector() {
		p.DropPenalties.PerNode = append(p.DropPenalties.PerNode, 0)
	}

	return newIdx
}

// duplicateToBack appends a copy of node `at`'s row/column (with a zero
// diagonal) and duplicates every parallel option block's entry for `at`,
// recording the duplicate's original node in p.IndexMap. Capacity
// duplication additionally inflates every vehicle's capacity by the
// duplicated demand, since the duplicate is a book-keeping artifact of the
// rewrite rather than an extra delivery.
func duplicateToBack(p *model.RoutingProblem, at int) int {
	n := len(p.DurationMatrix)
	newIdx := n

	origRowAt := append([]int64(nil), p.DurationMatrix[at]...)
	for i := range p.DurationMatrix {
		p.DurationMatrix[i] = append(p.DurationMatrix[i], origRowAt[i])
	}
	newRow := make([]int64, n+1)
	copy(newRow, origRowAt)
	newRow[newIdx] = 0
	p.DurationMatrix = append(p.DurationMatrix, newRow)

	if p.Capacity != nil {
		demand := p.Capacity.Demands[at]
		p.Capacity.Demands = append(p.Capacity.Demands, demand)
		for i := range p.Capacity.Capacities {
			p.Capacity.Capacities[i] += demand
		}
	}
	if p.ServiceTime != nil {
		p.ServiceTime.ServiceTime = append(p.ServiceTime.ServiceTime, p.ServiceTime.ServiceTime[at])
	}
	if p.TimeWindows != nil {
		dup := append([]model.TimeWindow(nil), p.TimeWindows.Windows[at]...)
		p.TimeWindows.Windows = append(p.TimeWindows.Windows, dup)
	}
	if p.DropPenalties != nil && p.DropPenalties.IsVector() {
		p.DropPenalties.PerNode = append(p.DropPenalties.PerNode, p.DropPenalties.PerNode[at])
	}

	p.IndexMap[newIdx] = p.OriginalNode(at)
	return newIdx
}
