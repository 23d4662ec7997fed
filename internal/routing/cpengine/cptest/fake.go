// Package cptest is a minimal in-memory cpengine.Engine double used by the
// binder and projector tests. It records what the binder wired up and lets
// a test script the assignment a "solve" would have returned, without
// pulling in a real constraint solver.
package cptest

import "example.com/vrp-routing-service/internal/routing/cpengine"

// Var is the fake engine's IntVar/IntervalVar representation. Kind and
// Index together identify which variable this is, so a scripted Assignment
// can resolve Value(v) without needing a real solver behind it.
type Var struct {
	Kind  string // "next", "vehicle", "cumul", "sum", "interval"
	Index cpengine.Index
	Name  string
}

// Engine is a cpengine.Engine that builds Models recording every call the
// binder makes.
type Engine struct{}

func (Engine) NewIndexManagerSingleDepot(nodeCount, vehicleCount int, depot cpengine.Node) cpengine.IndexManager {
	starts := make([]cpengine.Node, vehicleCount)
	ends := make([]cpengine.Node, vehicleCount)
	for i := range starts {
		starts[i] = depot
		ends[i] = depot
	}
	return newIndexManager(nodeCount, starts, ends)
}

func (Engine) NewIndexManagerStartEnd(nodeCount, vehicleCount int, starts, ends []cpengine.Node) cpengine.IndexManager {
	return newIndexManager(nodeCount, starts, ends)
}

func (Engine) NewModel(im cpengine.IndexManager) cpengine.Model {
	return &Model{im: im.(*indexManager), Dimensions: map[string]*Dimension{}}
}

// indexManager mirrors the real cpsat index manager's collision handling:
// a physical node reused by more than one vehicle start/end gets one
// canonical index plus one extra index per additional reuse, so tests
// exercising shared depots see the same index-space shape production does.
type indexManager struct {
	indexToNode []cpengine.Node
	starts      []cpengine.Index
	ends        []cpengine.Index
}

func newIndexManager(nodeCount int, starts, ends []cpengine.Node) *indexManager {
	im := &indexManager{
		indexToNode: make([]cpengine.Node, nodeCount),
		starts:      make([]cpengine.Index, len(starts)),
		ends:        make([]cpengine.Index, len(ends)),
	}
	for n := 0; n < nodeCount; n++ {
		im.indexToNode[n] = n
	}

	used := make(map[cpengine.Node]bool, len(starts)+len(ends))
	allocate := func(node cpengine.Node) cpengine.Index {
		if !used[node] {
			used[node] = true
			return cpengine.Index(node)
		}
		idx := cpengine.Index(len(im.indexToNode))
		im.indexToNode = append(im.indexToNode, node)
		return idx
	}

	for i := range starts {
		im.starts[i] = allocate(starts[i])
		im.ends[i] = allocate(ends[i])
	}
	return im
}

func (im *indexManager) IndexToNode(index cpengine.Index) cpengine.Node { return im.indexToNode[index] }
func (im *indexManager) NodeToIndex(node cpengine.Node) cpengine.Index  { return cpengine.Index(node) }
func (im *indexManager) Start(vehicle int) cpengine.Index               { return im.starts[vehicle] }
func (im *indexManager) End(vehicle int) cpengine.Index                 { return im.ends[vehicle] }
func (im *indexManager) NumIndices() int                                { return len(im.indexToNode) }

// PickupDeliveryCall records one AddPickupAndDelivery invocation.
type PickupDeliveryCall struct{ Pickup, Delivery cpengine.Index }

// DisjunctionCall records one AddDisjunction invocation.
type DisjunctionCall struct {
	Indices []cpengine.Index
	Penalty int64
}

// Dimension is a cpengine.Dimension double that just remembers what was
// asked of it, keyed by the index each cumulative variable belongs to.
type Dimension struct {
	Name              string
	TransitCBIdx      int
	UnaryCBIdx        int
	Slack             int64
	Capacity          int64
	VehicleCapacities []int64
	StartCumulToZero  bool

	Ranges        map[cpengine.Index][2]int64
	Removed       map[cpengine.Index][][2]int64
	VehicleBreaks map[int][]cpengine.IntervalVar
}

func (d *Dimension) CumulVar(index cpengine.Index) cpengine.IntVar {
	return Var{Kind: "cumul", Index: index, Name: d.Name}
}

func (d *Dimension) SetRange(v cpengine.IntVar, lo, hi int64) {
	if d.Ranges == nil {
		d.Ranges = map[cpengine.Index][2]int64{}
	}
	d.Ranges[v.(Var).Index] = [2]int64{lo, hi}
}

func (d *Dimension) RemoveInterval(v cpengine.IntVar, start, end int64) {
	if d.Removed == nil {
		d.Removed = map[cpengine.Index][][2]int64{}
	}
	idx := v.(Var).Index
	d.Removed[idx] = append(d.Removed[idx], [2]int64{start, end})
}

func (d *Dimension) SetBreakIntervalsOfVehicle(intervals []cpengine.IntervalVar, vehicle int, nodeVisitTransit []int64) {
	if d.VehicleBreaks == nil {
		d.VehicleBreaks = map[int][]cpengine.IntervalVar{}
	}
	d.VehicleBreaks[vehicle] = intervals
}

// Model is a cpengine.Model double that records every binder call and lets
// a test install a scripted Assignment via NextVars/Cumuls/UsedVehicle.
type Model struct {
	im *indexManager

	CostCallbackIndex int
	Dimensions        map[string]*Dimension
	dimOrder          []string

	PickupDeliveries []PickupDeliveryCall
	Policy           cpengine.PickupDeliveryPolicy

	Disjunctions []DisjunctionCall
	Finalizers   []cpengine.IntVar

	// Scripted by tests before Project is exercised.
	NextVars    map[cpengine.Index]cpengine.Index
	Cumuls      map[cpengine.Index]int64
	UsedVehicle map[int]bool

	SearchParams cpengine.SearchParameters
}

func (m *Model) RegisterTransitCallback(cpengine.TransitCallback) int          { return 0 }
func (m *Model) RegisterUnaryTransitCallback(cpengine.UnaryTransitCallback) int { return 1 }
func (m *Model) SetArcCostEvaluatorOfAllVehicles(idx int)                      { m.CostCallbackIndex = idx }

func (m *Model) AddDimension(transitCB int, slack, capacity int64, startCumulToZero bool, name string) cpengine.Dimension {
	d := &Dimension{Name: name, TransitCBIdx: transitCB, UnaryCBIdx: -1, Slack: slack, Capacity: capacity, StartCumulToZero: startCumulToZero}
	m.Dimensions[name] = d
	m.dimOrder = append(m.dimOrder, name)
	return d
}

func (m *Model) AddDimensionWithVehicleCapacity(demandCB int, slack int64, vehicleCapacities []int64, startCumulToZero bool, name string) cpengine.Dimension {
	d := &Dimension{Name: name, TransitCBIdx: -1, UnaryCBIdx: demandCB, Slack: slack, VehicleCapacities: vehicleCapacities, StartCumulToZero: startCumulToZero}
	m.Dimensions[name] = d
	m.dimOrder = append(m.dimOrder, name)
	return d
}

func (m *Model) GetMutableDimension(name string) cpengine.Dimension {
	d, ok := m.Dimensions[name]
	if !ok {
		return nil
	}
	return d
}

func (m *Model) AddPickupAndDelivery(pickup, delivery cpengine.Index) {
	m.PickupDeliveries = append(m.PickupDeliveries, PickupDeliveryCall{Pickup: pickup, Delivery: delivery})
}

func (m *Model) SetPickupAndDeliveryPolicyOfAllVehicles(policy cpengine.PickupDeliveryPolicy) {
	m.Policy = policy
}

func (m *Model) AddDisjunction(indices []cpengine.Index, penalty int64) {
	m.Disjunctions = append(m.Disjunctions, DisjunctionCall{Indices: indices, Penalty: penalty})
}

func (m *Model) AddVariableMinimizedByFinalizer(v cpengine.IntVar) {
	m.Finalizers = append(m.Finalizers, v)
}

func (m *Model) Start(vehicle int) cpengine.Index { return m.im.Start(vehicle) }
func (m *Model) End(vehicle int) cpengine.Index   { return m.im.End(vehicle) }

func (m *Model) NextVar(index cpengine.Index) cpengine.IntVar {
	return Var{Kind: "next", Index: index}
}

func (m *Model) VehicleVar(index cpengine.Index) cpengine.IntVar {
	return Var{Kind: "vehicle", Index: index}
}

func (m *Model) IsVehicleUsed(a cpengine.Assignment, vehicle int) bool {
	if m.UsedVehicle == nil {
		return true
	}
	return m.UsedVehicle[vehicle]
}

func (m *Model) IsEnd(index cpengine.Index) bool {
	for _, e := range m.im.ends {
		if e == index {
			return true
		}
	}
	return false
}

func (m *Model) Solver() cpengine.Solver { return &solver{} }

func (m *Model) SolveWithParameters(params cpengine.SearchParameters) (cpengine.Assignment, error) {
	m.SearchParams = params
	return &Assignment{model: m}, nil
}

type solver struct{}

func (*solver) MakeEquality(a, b cpengine.IntVar) cpengine.Constraint   { return nil }
func (*solver) MakeLessOrEqual(a, b cpengine.IntVar) cpengine.Constraint { return nil }
func (*solver) MakeSum(a cpengine.IntVar, c int64) cpengine.IntVar      { return a }
func (*solver) MakeFixedDurationIntervalVar(start cpengine.IntVar, duration int64, name string) cpengine.IntervalVar {
	return Var{Kind: "interval", Name: name}
}
func (*solver) AddConstraint(cpengine.Constraint) {}

// Assignment is a scripted solved assignment: NextVar values come from
// Model.NextVars, cumulative values from Model.Cumuls, both keyed by index.
type Assignment struct {
	model *Model
}

func (a *Assignment) Value(v cpengine.IntVar) int64 {
	fv, ok := v.(Var)
	if !ok {
		return 0
	}
	switch fv.Kind {
	case "next":
		return int64(a.model.NextVars[fv.Index])
	case "cumul":
		return a.model.Cumuls[fv.Index]
	default:
		return 0
	}
}

func (a *Assignment) Min(v cpengine.IntVar) int64 { return a.Value(v) }
