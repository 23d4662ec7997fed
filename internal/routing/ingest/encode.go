package ingest

import (
	"encoding/json"
	"fmt"

	"example.com/vrp-routing-service/internal/routing/model"
)

// ToJSON renders a RoutingModel using the same field names FromJSON accepts.
// It exists chiefly to exercise the P7 round-trip property (FromTyped and
// FromJSON must agree on equivalent input) in tests, and as a convenience
// for callers building requests programmatically.
func ToJSON(m model.RoutingModel) ([]byte, error) {
	root := map[string]any{
		"durationMatrix": m.DurationMatrix,
		"numVehicles":    m.NumVehicles,
		"apiTimeLimit":   m.TimeLimitSeconds,
	}

	switch d := m.Depot.(type) {
	case model.SingleDepot:
		root["routingMode"] = map[string]any{
			"type":    "depot",
			"payload": map[string]any{"depot": d.Depot},
		}
	case model.StartEndPair:
		root["routingMode"] = map[string]any{
			"type":    "startEnd",
			"payload": map[string]any{"starts": d.Starts, "ends": d.Ends},
		}
	default:
		return nil, fmt.Errorf("ingest: unknown depot config %T", m.Depot)
	}

	if m.Capacity != nil {
		root["withCapacity"] = map[string]any{
			"vehicleCapacity": m.Capacity.Capacities,
			"demands":         m.Capacity.Demands,
		}
	}
	if m.PickupDelivery != nil {
		pickDrops := make([]map[string]any, len(m.PickupDelivery.Pairs))
		for i, p := range m.PickupDelivery.Pairs {
			pickDrops[i] = map[string]any{"pickup": p.Pickup, "drop": p.Delivery}
		}
		root["withPickupAndDeliveries"] = map[string]any{"pickDrops": pickDrops}
	}
	if m.TimeWindows != nil {
		root["withTimeWindows"] = map[string]any{"timeWindows": encodeWindowLists(m.TimeWindows.Windows)}
	}
	if m.ServiceTime != nil {
		root["withServiceTime"] = map[string]any{"serviceTime": m.ServiceTime.ServiceTime}
	}
	if m.DropPenalties != nil {
		if m.DropPenalties.IsVector() {
			root["withDropPenalties"] = map[string]any{"penalties": m.DropPenalties.PerNode}
		} else {
			root["withDropPenalties"] = map[string]any{"penalty": *m.DropPenalties.Global}
		}
	}
	if m.VehicleBreakTime != nil {
		root["withVehicleBreakTime"] = map[string]any{"breakTimes": encodeWindowLists(m.VehicleBreakTime.BreakTime)}
	}

	return json.Marshal(root)
}

func encodeWindowLists(lists [][]model.TimeWindow) [][]map[string]int64 {
	out := make([][]map[string]int64, len(lists))
	for i, ws := range lists {
		row := make([]map[string]int64, len(ws))
		for j, w := range ws {
			row[j] = map[string]int64{"start": w.Start, "end": w.End}
		}
		out[i] = row
	}
	return out
}
