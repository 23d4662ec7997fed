package rewrite

import (
	"testing"

	"example.com/vrp-routing-service/internal/routing/model"
)

func problem4x4() *model.RoutingProblem {
	m := model.RoutingModel{
		DurationMatrix: model.DurationMatrix{
			{0, 1, 2, 3},
			{1, 0, 4, 5},
			{2, 4, 0, 6},
			{3, 5, 6, 0},
		},
		NumVehicles:      1,
		TimeLimitSeconds: 1,
	}
	return model.NewRoutingProblem(m)
}

func TestRewriteOpenRouteSingleDepot(t *testing.T) {
	p := problem4x4()
	p.Depot = model.SingleDepot{Depot: model.OpenRoute}

	if err := Rewrite(p); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if p.DurationMatrix.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", p.DurationMatrix.Size())
	}
	sd, ok := p.Depot.(model.SingleDepot)
	if !ok || sd.Depot != 4 {
		t.Fatalf("Depot = %#v, want SingleDepot{4}", p.Depot)
	}
	for i := 0; i < 5; i++ {
		if p.DurationMatrix[i][4] != 0 || p.DurationMatrix[4][i] != 0 {
			t.Errorf("dummy row/col not zero at %d", i)
		}
	}
}

func TestRewriteSharesOneDummyAcrossMultipleSentinels(t *testing.T) {
	p := problem4x4()
	p.Depot = model.StartEndPair{Starts: []int32{model.OpenRoute}, Ends: []int32{model.OpenRoute}}

	if err := Rewrite(p); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if p.DurationMatrix.Size() != 5 {
		t.Fatalf("Size() = %d, want 5 (one shared dummy)", p.DurationMatrix.Size())
	}
	se := p.Depot.(model.StartEndPair)
	if se.Starts[0] != 4 || se.Ends[0] != 4 {
		t.Fatalf("StartEndPair = %#v, want both resolved to the same dummy index 4", se)
	}
}

func TestRewriteDuplicatesSharedPickupDeliveryEndpoint(t *testing.T) {
	p := problem4x4()
	p.Depot = model.StartEndPair{Starts: []int32{model.OpenRoute}, Ends: []int32{model.OpenRoute}}
	p.PickupDelivery = &model.PickupDeliveryOption{Pairs: []model.PickupDelivery{
		{Pickup: 2, Delivery: 0},
		{Pickup: 3, Delivery: 1},
		{Pickup: 3, Delivery: 2},
	}}

	if err := Rewrite(p); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	// node 3 and node 2 each appear twice across the pairs; each second
	// occurrence must have been duplicated to a fresh index.
	pairs := p.PickupDelivery.Pairs
	if pairs[0].Pickup != 2 || pairs[0].Delivery != 0 {
		t.Errorf("pairs[0] = %#v, want first occurrences unchanged", pairs[0])
	}
	if pairs[1].Pickup != 3 || pairs[1].Delivery != 1 {
		t.Errorf("pairs[1] = %#v, want first occurrences unchanged", pairs[1])
	}
	if pairs[2].Pickup == 3 || pairs[2].Delivery == 2 {
		t.Errorf("pairs[2] = %#v, want both endpoints duplicated to fresh indices", pairs[2])
	}
	if p.OriginalNode(pairs[2].Pickup) != 3 {
		t.Errorf("IndexMap for duplicated pickup = %d, want original node 3", p.OriginalNode(pairs[2].Pickup))
	}
	if p.OriginalNode(pairs[2].Delivery) != 2 {
		t.Errorf("IndexMap for duplicated delivery = %d, want original node 2", p.OriginalNode(pairs[2].Delivery))
	}
}

func TestRewriteInflatesCapacityOnDuplication(t *testing.T) {
	p := problem4x4()
	p.NumVehicles = 2
	p.Capacity = &model.Capacity{Capacities: []int64{40, 40}, Demands: []int64{0, 5, 10, 30}}
	p.PickupDelivery = &model.PickupDeliveryOption{Pairs: []model.PickupDelivery{
		{Pickup: 2, Delivery: 0},
		{Pickup: 3, Delivery: 2},
	}}
	p.Depot = model.SingleDepot{Depot: 0}

	if err := Rewrite(p); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	// node 2 (demand 10) is duplicated once.
	for i, c := range p.Capacity.Capacities {
		if c != 50 {
			t.Errorf("Capacities[%d] = %d, want 50 (40 + duplicated demand 10)", i, c)
		}
	}
}

func TestRewriteIsFixedPointWhenNothingToDo(t *testing.T) {
	p := problem4x4()
	p.Depot = model.SingleDepot{Depot: 0}
	if err := Rewrite(p); err != nil {
		t.Fatalf("first Rewrite: %v", err)
	}
	sizeAfterFirst := p.DurationMatrix.Size()
	if err := Rewrite(p); err != nil {
		t.Fatalf("second Rewrite: %v", err)
	}
	if p.DurationMatrix.Size() != sizeAfterFirst {
		t.Errorf("second Rewrite changed matrix size: %d -> %d", sizeAfterFirst, p.DurationMatrix.Size())
	}
}
