package bind

import (
	"testing"
	"time"

	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/cpengine/cptest"
	"example.com/vrp-routing-service/internal/routing/model"
)

func problem() *model.RoutingProblem {
	m := model.RoutingModel{
		DurationMatrix: model.DurationMatrix{
			{0, 1, 2, 3},
			{1, 0, 4, 5},
			{2, 4, 0, 6},
			{3, 5, 6, 0},
		},
		Depot:            model.SingleDepot{Depot: 0},
		NumVehicles:      2,
		TimeLimitSeconds: 3,
	}
	return model.NewRoutingProblem(m)
}

func TestBindAddsTimeDimensionWithDefaults(t *testing.T) {
	p := problem()
	m, _ := Bind(cptest.Engine{}, p)

	fm := m.(*cptest.Model)
	d, ok := fm.Dimensions["Time"]
	if !ok {
		t.Fatalf("Time dimension was not created")
	}
	if d.Slack != 0 {
		t.Errorf("Slack = %d, want 0 (no breaks)", d.Slack)
	}
	if d.Capacity != model.InfiniteTime {
		t.Errorf("Capacity = %d, want InfiniteTime (no time windows)", d.Capacity)
	}
	if !d.StartCumulToZero {
		t.Errorf("StartCumulToZero = false, want true (no time windows)")
	}
}

func TestBindAddsCapacityDimensionWhenPresent(t *testing.T) {
	p := problem()
	p.Capacity = &model.Capacity{Capacities: []int64{10, 10}, Demands: []int64{0, 3, 4, 5}}
	m, _ := Bind(cptest.Engine{}, p)

	fm := m.(*cptest.Model)
	d, ok := fm.Dimensions["Capacity"]
	if !ok {
		t.Fatalf("Capacity dimension was not created")
	}
	if d.Slack != 0 {
		t.Errorf("Slack = %d, want 0", d.Slack)
	}
	if len(d.VehicleCapacities) != 2 || d.VehicleCapacities[0] != 10 {
		t.Errorf("VehicleCapacities = %v, want [10 10]", d.VehicleCapacities)
	}
}

func TestBindWiresPickupDelivery(t *testing.T) {
	p := problem()
	p.PickupDelivery = &model.PickupDeliveryOption{
		Pairs:     []model.PickupDelivery{{Pickup: 1, Delivery: 2}},
		Policy:    model.PolicyLIFO,
		HasPolicy: true,
	}
	m, _ := Bind(cptest.Engine{}, p)

	fm := m.(*cptest.Model)
	if len(fm.PickupDeliveries) != 1 {
		t.Fatalf("PickupDeliveries = %v, want 1 entry", fm.PickupDeliveries)
	}
	got := fm.PickupDeliveries[0]
	if got.Pickup != 1 || got.Delivery != 2 {
		t.Errorf("PickupDeliveries[0] = %+v, want {1 2}", got)
	}
	if fm.Policy != cpengine.PolicyLIFO {
		t.Errorf("Policy = %v, want PolicyLIFO", fm.Policy)
	}
}

func TestBindDropPenaltiesSkipsDepotAndZeroRows(t *testing.T) {
	p := problem()
	global := int64(7)
	p.DropPenalties = &model.DropPenalties{Global: &global}
	m, _ := Bind(cptest.Engine{}, p)

	fm := m.(*cptest.Model)
	// node 0 is the depot and must be excluded; nodes 1-3 have non-zero rows.
	if len(fm.Disjunctions) != 3 {
		t.Fatalf("Disjunctions = %v, want 3 entries (nodes 1,2,3)", fm.Disjunctions)
	}
	for _, dj := range fm.Disjunctions {
		if dj.Penalty != 7 {
			t.Errorf("penalty = %d, want 7", dj.Penalty)
		}
		if len(dj.Indices) != 1 || dj.Indices[0] == 0 {
			t.Errorf("disjunction indices = %v, want a single non-depot index", dj.Indices)
		}
	}
}

func TestBindAddsTwoFinalizersPerVehicle(t *testing.T) {
	p := problem()
	m, _ := Bind(cptest.Engine{}, p)

	fm := m.(*cptest.Model)
	if len(fm.Finalizers) != 2*int(p.NumVehicles) {
		t.Errorf("Finalizers = %d, want %d", len(fm.Finalizers), 2*p.NumVehicles)
	}
}

func TestSearchParametersUsesFixedStrategyAndScaledTimeLimit(t *testing.T) {
	p := problem()
	sp := SearchParameters(p)

	if sp.FirstSolutionStrategy != cpengine.PathCheapestArc {
		t.Errorf("FirstSolutionStrategy = %v, want PathCheapestArc", sp.FirstSolutionStrategy)
	}
	if sp.Metaheuristic != cpengine.GuidedLocalSearch {
		t.Errorf("Metaheuristic = %v, want GuidedLocalSearch", sp.Metaheuristic)
	}
	if sp.TimeLimit != 3*time.Second {
		t.Errorf("TimeLimit = %v, want 3s", sp.TimeLimit)
	}
}
