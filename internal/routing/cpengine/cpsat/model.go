package cpsat

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"google.golang.org/protobuf/proto"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"

	log "github.com/golang/glog"

	"example.com/vrp-routing-service/internal/routing/cpengine"
)

type disjunction struct {
	indices []cpengine.Index
	penalty int64
}

type arc struct {
	i, j cpengine.Index
	lit  cpmodel.BoolVar
}

// model accumulates the binder's registrations and compiles them into a
// single CP-SAT model on the first call to SolveWithParameters (or NextVar,
// which only the projector uses, after solving). Every
// vehicle's route is modelled as a cycle through the index graph: a fixed
// arc closes each vehicle's End back to its own Start, and CP-SAT's
// multiple-circuit constraint ("aka the VRP constraint" in its own
// documentation) requires every other index to have exactly one selected
// inbound and outbound arc, with an optional self-loop standing in for "this
// node was dropped" on nodes that carry a disjunction.
type model struct {
	b  *cpmodel.Builder
	im *indexManager

	transitCBs []cpengine.TransitCallback
	unaryCBs   []cpengine.UnaryTransitCallback
	costCBIdx  int

	dims     map[string]*dimension
	dimOrder []string

	pdPairs  [][2]cpengine.Index
	pdPolicy cpengine.PickupDeliveryPolicy

	disjunctions []disjunction
	finalizers   []cpengine.IntVar

	numSearchWorkers     int32
	maxNumberOfConflicts int64

	// populated by compile():
	regularArcs []arc
	vehicleVar  []cpmodel.IntVar
	nextVar     []cpmodel.IntVar
	emptyRoute  map[int]cpmodel.BoolVar // vehicle -> literal for its Start->End arc
	compiled    bool
}

func newModel(im *indexManager, numSearchWorkers int32, maxNumberOfConflicts int64) *model {
	return &model{
		b:                    cpmodel.NewCpModelBuilder(),
		im:                   im,
		costCBIdx:            -1,
		dims:                 map[string]*dimension{},
		emptyRoute:           map[int]cpmodel.BoolVar{},
		numSearchWorkers:     numSearchWorkers,
		maxNumberOfConflicts: maxNumberOfConflicts,
	}
}

func (m *model) RegisterTransitCallback(cb cpengine.TransitCallback) int {
	m.transitCBs = append(m.transitCBs, cb)
	return len(m.transitCBs) - 1
}

func (m *model) RegisterUnaryTransitCallback(cb cpengine.UnaryTransitCallback) int {
	m.unaryCBs = append(m.unaryCBs, cb)
	return len(m.unaryCBs) - 1
}

func (m *model) SetArcCostEvaluatorOfAllVehicles(callbackIndex int) {
	m.costCBIdx = callbackIndex
}

func (m *model) AddDimension(transitCallbackIndex int, slack, capacity int64, startCumulToZero bool, name string) cpengine.Dimension {
	d := newDimension(m.b, m.im, name, transitCallbackIndex, -1, slack, capacity, nil, startCumulToZero)
	m.dims[name] = d
	m.dimOrder = append(m.dimOrder, name)
	return d
}

func (m *model) AddDimensionWithVehicleCapacity(demandCallbackIndex int, slack int64, vehicleCapacities []int64, startCumulToZero bool, name string) cpengine.Dimension {
	ub := int64(0)
	for _, c := range vehicleCapacities {
		if c > ub {
			ub = c
		}
	}
	d := newDimension(m.b, m.im, name, -1, demandCallbackIndex, slack, ub, vehicleCapacities, startCumulToZero)
	m.dims[name] = d
	m.dimOrder = append(m.dimOrder, name)
	return d
}

func (m *model) GetMutableDimension(name string) cpengine.Dimension {
	d, ok := m.dims[name]
	if !ok {
		return nil
	}
	return d
}

func (m *model) AddPickupAndDelivery(pickup, delivery cpengine.Index) {
	m.pdPairs = append(m.pdPairs, [2]cpengine.Index{pickup, delivery})
}

func (m *model) SetPickupAndDeliveryPolicyOfAllVehicles(policy cpengine.PickupDeliveryPolicy) {
	m.pdPolicy = policy
}

func (m *model) AddDisjunction(indices []cpengine.Index, penalty int64) {
	m.disjunctions = append(m.disjunctions, disjunction{indices: indices, penalty: penalty})
}

func (m *model) AddVariableMinimizedByFinalizer(v cpengine.IntVar) {
	m.finalizers = append(m.finalizers, v)
}

func (m *model) Start(vehicle int) cpengine.Index { return m.im.Start(vehicle) }
func (m *model) End(vehicle int) cpengine.Index   { return m.im.End(vehicle) }

func (m *model) NextVar(index cpengine.Index) cpengine.IntVar {
	m.mustCompile()
	return m.nextVar[index]
}

func (m *model) VehicleVar(index cpengine.Index) cpengine.IntVar {
	m.ensureVehicleVars()
	return m.vehicleVar[index]
}

// ensureVehicleVars creates one vehicle-assignment variable per index. It
// runs without compiling the model, so the binder can reference VehicleVar
// while it is still registering dimensions, windows and disjunctions.
func (m *model) ensureVehicleVars() {
	if m.vehicleVar != nil {
		return
	}
	n := m.im.NumIndices()
	m.vehicleVar = make([]cpmodel.IntVar, n)
	for i := 0; i < n; i++ {
		m.vehicleVar[i] = m.b.NewIntVar(0, int64(m.im.vehicleCount-1)).WithName(fmt.Sprintf("vehicle_%d", i))
	}
}

func (m *model) IsVehicleUsed(a cpengine.Assignment, vehicle int) bool {
	sa, ok := a.(*assignment)
	if !ok {
		return false
	}
	lit, ok := m.emptyRoute[vehicle]
	if !ok {
		return true
	}
	return !cpmodel.SolutionBooleanValue(sa.resp, lit)
}

func (m *model) IsEnd(index cpengine.Index) bool {
	_, ok := m.im.isEnd[index]
	return ok
}

func (m *model) Solver() cpengine.Solver { return &solver{b: m.b} }

func (m *model) mustCompile() {
	if !m.compiled {
		m.compile()
		m.compiled = true
	}
}

// dropSet reports, for every index carrying a disjunction, its penalty.
func (m *model) dropSet() map[cpengine.Index]int64 {
	drop := map[cpengine.Index]int64{}
	for _, dj := range m.disjunctions {
		for _, idx := range dj.indices {
			drop[idx] = dj.penalty
		}
	}
	return drop
}

func (m *model) compile() {
	n := m.im.NumIndices()
	drop := m.dropSet()

	circuit := m.b.AddMultipleCircuitConstraint()
	// Close every vehicle's cycle: End(v) always flows back to Start(v).
	// This link is solver bookkeeping only, never part of the travelled
	// route or its cost.
	for v := 0; v < m.im.vehicleCount; v++ {
		circuit.AddRoute(int32(m.im.End(v)), int32(m.im.Start(v)), m.b.TrueVar())
	}

	m.ensureVehicleVars()
	for v := 0; v < m.im.vehicleCount; v++ {
		m.b.AddEquality(m.vehicleVar[m.im.Start(v)], cpmodel.NewConstant(int64(v)))
		m.b.AddEquality(m.vehicleVar[m.im.End(v)], cpmodel.NewConstant(int64(v)))
	}

	// Self-loops stand in for "this node is dropped"; only nodes carrying a
	// disjunction get one.
	selfLoop := make(map[cpengine.Index]cpmodel.BoolVar, len(drop))
	for idx := range drop {
		lit := m.b.NewBoolVar().WithName(fmt.Sprintf("drop_%d", idx))
		circuit.AddRoute(int32(idx), int32(idx), lit)
		selfLoop[idx] = lit
	}

	obj := cpmodel.NewLinearExpr()
	for idx, penalty := range drop {
		obj.AddTerm(selfLoop[idx], penalty)
	}

	nextCandidates := make([][]cpmodel.BoolVar, n)
	nextTargets := make([][]int64, n)
	for i := 0; i < n; i++ {
		if lit, ok := selfLoop[cpengine.Index(i)]; ok {
			nextCandidates[i] = append(nextCandidates[i], lit)
			nextTargets[i] = append(nextTargets[i], int64(i))
		}
	}

	for v := 0; v < m.im.vehicleCount; v++ {
		startIdx, endIdx := m.im.Start(v), m.im.End(v)
		lit := m.b.NewBoolVar().WithName(fmt.Sprintf("empty_route_%d", v))
		circuit.AddRoute(int32(startIdx), int32(endIdx), lit)
		m.emptyRoute[v] = lit
		m.regularArcs = append(m.regularArcs, arc{i: startIdx, j: endIdx, lit: lit})
		nextCandidates[startIdx] = append(nextCandidates[startIdx], lit)
		nextTargets[startIdx] = append(nextTargets[startIdx], int64(endIdx))
		if m.costCBIdx >= 0 {
			obj.AddTerm(lit, m.transitCBs[m.costCBIdx](m.im.IndexToNode(startIdx), m.im.IndexToNode(endIdx)))
		}
		m.b.AddEquality(m.vehicleVar[endIdx], m.vehicleVar[startIdx]).OnlyEnforceIf(lit)
	}

	for i := 0; i < n; i++ {
		if _, isEnd := m.im.isEnd[cpengine.Index(i)]; isEnd {
			continue // nothing leaves End(v) except the fixed closing arc.
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if _, isStart := m.im.isStart[cpengine.Index(j)]; isStart {
				continue // nothing enters Start(v) except the fixed closing arc.
			}
			if _, isStart := m.im.isStart[cpengine.Index(i)]; isStart {
				if _, isEnd := m.im.isEnd[cpengine.Index(j)]; isEnd {
					continue // the direct Start(v)->End(v) arc is handled above.
				}
			}
			lit := m.b.NewBoolVar().WithName(fmt.Sprintf("arc_%d_%d", i, j))
			circuit.AddRoute(int32(i), int32(j), lit)
			m.regularArcs = append(m.regularArcs, arc{i: cpengine.Index(i), j: cpengine.Index(j), lit: lit})
			nextCandidates[i] = append(nextCandidates[i], lit)
			nextTargets[i] = append(nextTargets[i], int64(j))
			if m.costCBIdx >= 0 {
				obj.AddTerm(lit, m.transitCBs[m.costCBIdx](m.im.IndexToNode(cpengine.Index(i)), m.im.IndexToNode(cpengine.Index(j))))
			}
			m.b.AddEquality(m.vehicleVar[j], m.vehicleVar[i]).OnlyEnforceIf(lit)
		}
	}

	m.nextVar = make([]cpmodel.IntVar, n)
	for i := 0; i < n; i++ {
		v := m.b.NewIntVar(0, int64(n-1)).WithName(fmt.Sprintf("next_%d", i))
		m.nextVar[i] = v
		las := make([]cpmodel.LinearArgument, len(nextCandidates[i]))
		for k, lit := range nextCandidates[i] {
			las[k] = lit
		}
		m.b.AddEquality(v, cpmodel.NewLinearExpr().AddWeightedSum(las, nextTargets[i]))
	}

	for _, name := range m.dimOrder {
		d := m.dims[name]
		d.compile(m.b, m.im)
		m.propagateDimension(d)
	}

	for i, pair := range m.pdPairs {
		p, d := pair[0], pair[1]
		m.b.AddEquality(m.vehicleVar[p], m.vehicleVar[d]).WithName(fmt.Sprintf("pd_vehicle_%d", i))
		if timeDim, ok := m.dims["Time"]; ok {
			m.b.AddLessOrEqual(timeDim.cumul[p], timeDim.cumul[d])
		}
	}
	if m.pdPolicy != cpengine.PolicyUnset && len(m.pdPairs) > 0 {
		log.V(1).Infof("cpsat: pickup/delivery policy %v recorded; this backend enforces same-vehicle "+
			"and pickup-before-delivery ordering exactly but approximates FIFO/LIFO interleaving across "+
			"multiple pairs sharing a vehicle as a scope reduction of the CP engine, not of the binder contract", m.pdPolicy)
	}

	// Finalisers: minimising them exactly would need a lexicographic
	// objective; CP-SAT has a single objective, so they are folded in as a
	// low-weight tie-breaker under the primary (scaled) transit cost.
	const finalizerScale = 1
	const primaryScale = 1000
	scaledObj := cpmodel.NewLinearExpr().AddTerm(obj, primaryScale)
	for _, v := range m.finalizers {
		scaledObj.AddTerm(toLinearArgument(v), finalizerScale)
	}
	m.b.Minimize(scaledObj)
}

// propagateDimension adds, for every regular arc, the conditional
// cumulative-increase constraint that makes the dimension's cumul variables
// track transit along whichever route is actually selected. A vehicle's
// reserved break time is folded into the cost of the arc leaving its start:
// since every circuit passes through exactly one such arc, that reservation
// is carried into cumul[End(v)] the same way real transit is, rather than
// sitting alongside it as a separate, easily-dominated bound.
func (m *model) propagateDimension(d *dimension) {
	for _, a := range m.regularArcs {
		var cost int64
		switch {
		case d.transitCBIdx >= 0:
			cost = m.transitCBs[d.transitCBIdx](m.im.IndexToNode(a.i), m.im.IndexToNode(a.j))
		case d.unaryCBIdx >= 0:
			cost = m.unaryCBs[d.unaryCBIdx](m.im.IndexToNode(a.j))
		default:
			continue
		}
		if v, ok := m.im.isStart[a.i]; ok {
			cost += d.breakTotal(v)
		}
		lower := cpmodel.NewLinearExpr().Add(d.cumul[a.i]).AddConstant(cost)
		m.b.AddGreaterOrEqual(d.cumul[a.j], lower).OnlyEnforceIf(a.lit)
		if d.slack >= 0 {
			upper := cpmodel.NewLinearExpr().Add(d.cumul[a.i]).AddConstant(cost + d.slack)
			m.b.AddLessOrEqual(d.cumul[a.j], upper).OnlyEnforceIf(a.lit)
		}
	}
}

func (m *model) SolveWithParameters(params cpengine.SearchParameters) (cpengine.Assignment, error) {
	m.mustCompile()

	cm, err := m.b.Model()
	if err != nil {
		return nil, fmt.Errorf("cpsat: build model: %w", err)
	}

	limit := params.TimeLimit.Seconds()
	if limit <= 0 {
		limit = 1
	}
	satParams := &sppb.SatParameters{MaxTimeInSeconds: proto.Float64(limit)}
	if m.numSearchWorkers > 0 {
		satParams.NumSearchWorkers = proto.Int32(m.numSearchWorkers)
	}
	if m.maxNumberOfConflicts > 0 {
		satParams.MaxNumberOfConflicts = proto.Int64(m.maxNumberOfConflicts)
	}

	resp, err := cpmodel.SolveCpModelWithParameters(cm, satParams)
	if err != nil {
		return nil, fmt.Errorf("cpsat: solve: %w", err)
	}
	log.V(1).Infof("cpsat: solve status %v in %.3fs", resp.GetStatus(), resp.GetWallTime())

	switch resp.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		return &assignment{resp: resp}, nil
	default:
		return nil, &cpengine.NoSolutionError{TimeLimitSeconds: int64(limit)}
	}
}
