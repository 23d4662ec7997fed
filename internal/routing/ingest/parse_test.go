package ingest

import (
	"reflect"
	"testing"

	"example.com/vrp-routing-service/internal/routing/model"
)

func TestFromJSONMinimal(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "depot", "payload": {"depot": 0}}
	}`)
	m, err := FromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	if m.NumVehicles != 1 {
		t.Errorf("NumVehicles = %d, want default 1", m.NumVehicles)
	}
	if m.TimeLimitSeconds != 1 {
		t.Errorf("TimeLimitSeconds = %d, want default 1", m.TimeLimitSeconds)
	}
	sd, ok := m.Depot.(model.SingleDepot)
	if !ok || sd.Depot != 0 {
		t.Errorf("Depot = %#v, want SingleDepot{0}", m.Depot)
	}
}

func TestFromJSONMissingDurationMatrix(t *testing.T) {
	body := []byte(`{"routingMode": {"type": "depot", "payload": {"depot": 0}}}`)
	_, err := FromJSON(body)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Key != "durationMatrix" {
		t.Errorf("Key = %q, want durationMatrix", pe.Key)
	}
}

func TestFromJSONBadTimeWindowNested(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "depot", "payload": {"depot": 0}},
		"withTimeWindows": {"timeWindows": [[{"start": 0, "end": "late"}]]}
	}`)
	_, err := FromJSON(body)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	want := "withTimeWindows.timeWindows[0][0].end"
	if pe.Key != want {
		t.Errorf("Key = %q, want %q", pe.Key, want)
	}
}

func TestFromJSONStartEndPair(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "startEnd", "payload": {"starts": [0,-1], "ends": [-1,1]}}
	}`)
	m, err := FromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	se, ok := m.Depot.(model.StartEndPair)
	if !ok {
		t.Fatalf("Depot = %#v, want StartEndPair", m.Depot)
	}
	if !reflect.DeepEqual(se.Starts, []int32{0, -1}) || !reflect.DeepEqual(se.Ends, []int32{-1, 1}) {
		t.Errorf("unexpected StartEndPair: %#v", se)
	}
}

func TestFromJSONDropPenaltiesEmptyObjectIsAbsent(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "depot", "payload": {"depot": 0}},
		"withDropPenalties": {}
	}`)
	m, err := FromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	if m.DropPenalties != nil {
		t.Errorf("DropPenalties = %#v, want nil for an empty object", m.DropPenalties)
	}
}

func TestFromJSONApiTimeLimitMalformedRejected(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "depot", "payload": {"depot": 0}},
		"apiTimeLimit": "soon"
	}`)
	_, err := FromJSON(body)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Key != "apiTimeLimit" {
		t.Errorf("Key = %q, want apiTimeLimit", pe.Key)
	}
}

func TestFromJSONApiTimeLimitAbsentDefaults(t *testing.T) {
	body := []byte(`{
		"durationMatrix": [[0,1],[1,0]],
		"routingMode": {"type": "depot", "payload": {"depot": 0}}
	}`)
	m, err := FromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	if m.TimeLimitSeconds != 1 {
		t.Errorf("TimeLimitSeconds = %d, want default 1", m.TimeLimitSeconds)
	}
}

func TestParseErrorMarshalJSONShapes(t *testing.T) {
	bare := &ParseError{Key: "durationMatrix"}
	b, err := bare.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"code":"PARSE_ERROR","errors":"durationMatrix"}`
	if string(b) != want {
		t.Errorf("bare shape = %s, want %s", b, want)
	}

	rich := &ParseError{Key: "apiTimeLimit", Values: []string{"integer"}}
	b, err = rich.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want = `{"code":"PARSE_ERROR","errors":"invalid payload","data":{"key":"apiTimeLimit","values":["integer"]}}`
	if string(b) != want {
		t.Errorf("rich shape = %s, want %s", b, want)
	}
}

func TestRoundTripFromTypedAndFromJSON(t *testing.T) {
	penalty := int64(1000)
	typed := TypedRequest{
		DurationMatrix:   model.DurationMatrix{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}},
		Depot:            model.StartEndPair{Starts: []int32{0}, Ends: []int32{-1}},
		NumVehicles:      1,
		TimeLimitSeconds: 5,
		ServiceTime:      &model.ServiceTimeOption{ServiceTime: []int64{0, 1, 2}},
		DropPenalties:    &model.DropPenalties{Global: &penalty},
	}
	viaTyped := FromTyped(typed)

	body, err := ToJSON(viaTyped)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	viaJSON, err := FromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if !reflect.DeepEqual(viaTyped.DurationMatrix, viaJSON.DurationMatrix) {
		t.Errorf("DurationMatrix mismatch: %#v vs %#v", viaTyped.DurationMatrix, viaJSON.DurationMatrix)
	}
	if !reflect.DeepEqual(viaTyped.Depot, viaJSON.Depot) {
		t.Errorf("Depot mismatch: %#v vs %#v", viaTyped.Depot, viaJSON.Depot)
	}
	if viaTyped.NumVehicles != viaJSON.NumVehicles || viaTyped.TimeLimitSeconds != viaJSON.TimeLimitSeconds {
		t.Errorf("scalar mismatch: %#v vs %#v", viaTyped, viaJSON)
	}
	if !reflect.DeepEqual(viaTyped.ServiceTime, viaJSON.ServiceTime) {
		t.Errorf("ServiceTime mismatch: %#v vs %#v", viaTyped.ServiceTime, viaJSON.ServiceTime)
	}
	if *viaTyped.DropPenalties.Global != *viaJSON.DropPenalties.Global {
		t.Errorf("DropPenalties mismatch: %#v vs %#v", viaTyped.DropPenalties, viaJSON.DropPenalties)
	}
}
