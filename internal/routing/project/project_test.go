package project

import (
	"reflect"
	"testing"

	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/cpengine/cptest"
	"example.com/vrp-routing-service/internal/routing/model"
	"example.com/vrp-routing-service/internal/routing/rewrite"
)

func problem(numVehicles int32) *model.RoutingProblem {
	m := model.RoutingModel{
		DurationMatrix: model.DurationMatrix{
			{0, 1, 2, 3},
			{1, 0, 4, 5},
			{2, 4, 0, 6},
			{3, 5, 6, 0},
		},
		Depot:            model.SingleDepot{Depot: 0},
		NumVehicles:      numVehicles,
		TimeLimitSeconds: 1,
	}
	return model.NewRoutingProblem(m)
}

func TestProjectWalksRouteInOriginalNodeNumbering(t *testing.T) {
	p := problem(1)
	engine := cptest.Engine{}
	im := engine.NewIndexManagerSingleDepot(4, 1, 0)
	fm := engine.NewModel(im).(*cptest.Model)

	// A single vehicle's start and end both sit at the depot node (0), so
	// the index manager gives the end its own extra index, same as it would
	// for two vehicles sharing a depot.
	end := im.End(0)
	fm.NextVars = map[cpengine.Index]cpengine.Index{0: 1, 1: 2, 2: end}
	fm.Cumuls = map[cpengine.Index]int64{end: 9}
	fm.AddDimension(0, 0, model.InfiniteTime, true, "Time")

	a, err := fm.SolveWithParameters(cpengine.SearchParameters{})
	if err != nil {
		t.Fatalf("SolveWithParameters: %v", err)
	}

	oe := rewrite.OpenEnds{Start: []bool{false}, End: []bool{false}}
	got := Project(fm, im, a, p, oe)

	want := []model.RoutingResponse{{Route: []int{0, 1, 2, 0}, TotalDuration: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project() = %+v, want %+v", got, want)
	}
}

func TestProjectTrimsOpenRouteDummies(t *testing.T) {
	p := problem(1)
	p.Depot = model.StartEndPair{Starts: []int32{model.OpenRoute}, Ends: []int32{model.OpenRoute}}
	oe := rewrite.CaptureOpenEnds(p, 1)
	if err := rewrite.Rewrite(p); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	engine := cptest.Engine{}
	im := engine.NewIndexManagerStartEnd(p.DurationMatrix.Size(), 1, []cpengine.Node{4}, []cpengine.Node{4})
	fm := engine.NewModel(im).(*cptest.Model)

	// Both the vehicle's start and end resolve to the same dummy node (4),
	// so the index manager gives the end its own extra index (5), matching
	// what the real engine does for a shared depot.
	end := im.End(0)
	fm.NextVars = map[cpengine.Index]cpengine.Index{4: 1, 1: 2, 2: end}
	fm.Cumuls = map[cpengine.Index]int64{end: 6}
	fm.AddDimension(0, 0, model.InfiniteTime, true, "Time")

	a, _ := fm.SolveWithParameters(cpengine.SearchParameters{})
	got := Project(fm, im, a, p, oe)

	want := []model.RoutingResponse{{Route: []int{1, 2}, TotalDuration: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project() = %+v, want %+v", got, want)
	}
}

func TestProjectSkipsUnusedVehicle(t *testing.T) {
	p := problem(2)
	engine := cptest.Engine{}
	im := engine.NewIndexManagerSingleDepot(4, 2, 0)
	fm := engine.NewModel(im).(*cptest.Model)
	fm.UsedVehicle = map[int]bool{0: true, 1: false}
	end := im.End(0)
	fm.NextVars = map[cpengine.Index]cpengine.Index{0: end}
	fm.Cumuls = map[cpengine.Index]int64{end: 0}
	fm.AddDimension(0, 0, model.InfiniteTime, true, "Time")

	a, _ := fm.SolveWithParameters(cpengine.SearchParameters{})
	oe := rewrite.OpenEnds{Start: []bool{false, false}, End: []bool{false, false}}
	got := Project(fm, im, a, p, oe)

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if !reflect.DeepEqual(got[1], model.RoutingResponse{}) {
		t.Errorf("got[1] = %+v, want the zero value", got[1])
	}
}
