package model

import "testing"

func TestTimeWindowLess(t *testing.T) {
	cases := []struct {
		a, b TimeWindow
		want bool
	}{
		{TimeWindow{0, 10}, TimeWindow{5, 10}, true},
		{TimeWindow{5, 10}, TimeWindow{0, 10}, false},
		{TimeWindow{5, 10}, TimeWindow{5, 20}, true},
		{TimeWindow{5, 20}, TimeWindow{5, 10}, false},
		{TimeWindow{5, 10}, TimeWindow{5, 10}, false},
	}
	for _, c := range cases {
		if got := c.a.Less(c.b); got != c.want {
			t.Errorf("(%v).Less(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSortTimeWindows(t *testing.T) {
	ws := []TimeWindow{{20, 30}, {0, 5}, {10, 12}, {0, 1}}
	SortTimeWindows(ws)
	want := []TimeWindow{{0, 1}, {0, 5}, {10, 12}, {20, 30}}
	for i := range want {
		if !ws[i].Equal(want[i]) {
			t.Fatalf("index %d: got %v want %v", i, ws[i], want[i])
		}
	}
}

func TestPickupDeliveryEqual(t *testing.T) {
	a := PickupDelivery{Pickup: 1, Delivery: 2}
	b := PickupDelivery{Pickup: 1, Delivery: 2}
	c := PickupDelivery{Pickup: 2, Delivery: 1}
	if !a.Equal(b) {
		t.Error("expected a == b")
	}
	if a.Equal(c) {
		t.Error("expected a != c")
	}
}

func TestDropPenaltiesIsVector(t *testing.T) {
	global := int64(5)
	g := DropPenalties{Global: &global}
	v := DropPenalties{PerNode: []int64{1, 2, 3}}
	if g.IsVector() {
		t.Error("global penalties should not be reported as a vector")
	}
	if !v.IsVector() {
		t.Error("per-node penalties should be reported as a vector")
	}
}

func TestNewRoutingModelDefaults(t *testing.T) {
	m := NewRoutingModel(DurationMatrix{{0, 1}, {1, 0}})
	if m.NumVehicles != 1 {
		t.Errorf("NumVehicles = %d, want 1", m.NumVehicles)
	}
	if m.TimeLimitSeconds != 1 {
		t.Errorf("TimeLimitSeconds = %d, want 1", m.TimeLimitSeconds)
	}
	sd, ok := m.Depot.(SingleDepot)
	if !ok || sd.Depot != 0 {
		t.Errorf("Depot = %#v, want SingleDepot{0}", m.Depot)
	}
}

func TestRoutingProblemOriginalNode(t *testing.T) {
	p := NewRoutingProblem(NewRoutingModel(DurationMatrix{{0}}))
	p.IndexMap[5] = 2
	if got := p.OriginalNode(5); got != 2 {
		t.Errorf("OriginalNode(5) = %d, want 2", got)
	}
	if got := p.OriginalNode(3); got != 3 {
		t.Errorf("OriginalNode(3) = %d, want 3 (identity)", got)
	}
}
