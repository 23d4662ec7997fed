package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"example.com/vrp-routing-service/internal/routing/model"
)

// FromJSON decodes a free-form routing request per the field table in the
// ingestion contract, reporting the first shape mismatch it encounters and
// stopping there.
func FromJSON(data []byte) (model.RoutingModel, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return model.RoutingModel{}, &ParseError{Key: "$", Values: []string{"valid JSON"}}
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return model.RoutingModel{}, &ParseError{Key: "$", Values: []string{"object"}}
	}
	return parseRoot(root)
}

func parseRoot(root map[string]any) (model.RoutingModel, error) {
	matrix, err := parseDurationMatrix(root)
	if err != nil {
		return model.RoutingModel{}, err
	}

	numVehicles, err := parseNumVehicles(root)
	if err != nil {
		return model.RoutingModel{}, err
	}

	timeLimit, err := parseAPITimeLimit(root)
	if err != nil {
		return model.RoutingModel{}, err
	}

	depot, err := parseRoutingMode(root)
	if err != nil {
		return model.RoutingModel{}, err
	}

	m := model.RoutingModel{
		DurationMatrix:   matrix,
		Depot:            depot,
		NumVehicles:      numVehicles,
		TimeLimitSeconds: timeLimit,
	}

	if m.Capacity, err = parseWithCapacity(root); err != nil {
		return model.RoutingModel{}, err
	}
	if m.PickupDelivery, err = parseWithPickupAndDeliveries(root); err != nil {
		return model.RoutingModel{}, err
	}
	if m.TimeWindows, err = parseWithTimeWindows(root); err != nil {
		return model.RoutingModel{}, err
	}
	if m.ServiceTime, err = parseWithServiceTime(root); err != nil {
		return model.RoutingModel{}, err
	}
	if m.DropPenalties, err = parseWithDropPenalties(root); err != nil {
		return model.RoutingModel{}, err
	}
	if m.VehicleBreakTime, err = parseWithVehicleBreakTime(root); err != nil {
		return model.RoutingModel{}, err
	}
	return m, nil
}

func path(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "." + suffix
}

func index(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func asInt64(v any, key string) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, &ParseError{Key: key, Values: []string{"integer"}}
	}
	i, err := n.Int64()
	if err != nil {
		return 0, &ParseError{Key: key, Values: []string{"integer"}}
	}
	return i, nil
}

func asArray(v any, key string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, &ParseError{Key: key, Values: []string{"array"}}
	}
	return arr, nil
}

func asObject(v any, key string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Key: key, Values: []string{"object"}}
	}
	return obj, nil
}

func parseDurationMatrix(root map[string]any) (model.DurationMatrix, error) {
	v, ok := root["durationMatrix"]
	if !ok {
		return nil, &ParseError{Key: "durationMatrix", Values: []string{"required"}}
	}
	rows, err := asArray(v, "durationMatrix")
	if err != nil {
		return nil, err
	}
	matrix := make(model.DurationMatrix, len(rows))
	for i, rv := range rows {
		rowKey := index("durationMatrix", i)
		row, err := asArray(rv, rowKey)
		if err != nil {
			return nil, err
		}
		out := make([]int64, len(row))
		for j, cv := range row {
			cellKey := index(rowKey, j)
			n, err := asInt64(cv, cellKey)
			if err != nil {
				return nil, err
			}
			out[j] = n
		}
		matrix[i] = out
	}
	return matrix, nil
}

func parseNumVehicles(root map[string]any) (int32, error) {
	v, ok := root["numVehicles"]
	if !ok {
		return 1, nil
	}
	n, err := asInt64(v, "numVehicles")
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

func parseAPITimeLimit(root map[string]any) (int64, error) {
	v, ok := root["apiTimeLimit"]
	if !ok {
		return 1, nil
	}
	n, err := asInt64(v, "apiTimeLimit")
	if err != nil {
		return 0, err
	}
	return n, nil
}

func parseRoutingMode(root map[string]any) (model.DepotConfig, error) {
	v, ok := root["routingMode"]
	if !ok {
		return nil, &ParseError{Key: "routingMode", Values: []string{"required"}}
	}
	obj, err := asObject(v, "routingMode")
	if err != nil {
		return nil, err
	}
	typeVal, ok := obj["type"]
	if !ok {
		return nil, &ParseError{Key: "routingMode.type", Values: []string{"required"}}
	}
	typeStr, ok := typeVal.(string)
	if !ok {
		return nil, &ParseError{Key: "routingMode.type", Values: []string{"depot", "startEnd"}}
	}

	payloadVal, ok := obj["payload"]
	if !ok {
		return nil, &ParseError{Key: "routingMode.payload", Values: []string{"required"}}
	}
	payload, err := asObject(payloadVal, "routingMode.payload")
	if err != nil {
		return nil, err
	}

	switch typeStr {
	case "depot":
		dv, ok := payload["depot"]
		if !ok {
			return nil, &ParseError{Key: "routingMode.payload.depot", Values: []string{"required"}}
		}
		depot, err := asInt64(dv, "routingMode.payload.depot")
		if err != nil {
			return nil, err
		}
		return model.SingleDepot{Depot: int32(depot)}, nil
	case "startEnd":
		starts, err := parseInt32Array(payload, "starts", "routingMode.payload.starts")
		if err != nil {
			return nil, err
		}
		ends, err := parseInt32Array(payload, "ends", "routingMode.payload.ends")
		if err != nil {
			return nil, err
		}
		return model.StartEndPair{Starts: starts, Ends: ends}, nil
	default:
		return nil, &ParseError{Key: "routingMode.type", Values: []string{"depot", "startEnd"}}
	}
}

func parseInt32Array(obj map[string]any, field, key string) ([]int32, error) {
	v, ok := obj[field]
	if !ok {
		return nil, &ParseError{Key: key, Values: []string{"required"}}
	}
	arr, err := asArray(v, key)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(arr))
	for i, ev := range arr {
		n, err := asInt64(ev, index(key, i))
		if err != nil {
			return nil, err
		}
		out[i] = int32(n)
	}
	return out, nil
}

func parseInt64Array(obj map[string]any, field, key string) ([]int64, error) {
	v, ok := obj[field]
	if !ok {
		return nil, &ParseError{Key: key, Values: []string{"required"}}
	}
	arr, err := asArray(v, key)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(arr))
	for i, ev := range arr {
		n, err := asInt64(ev, index(key, i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func parseWithCapacity(root map[string]any) (*model.Capacity, error) {
	v, ok := root["withCapacity"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withCapacity")
	if err != nil {
		return nil, err
	}
	caps, err := parseInt64Array(obj, "vehicleCapacity", "withCapacity.vehicleCapacity")
	if err != nil {
		return nil, err
	}
	demands, err := parseInt64Array(obj, "demands", "withCapacity.demands")
	if err != nil {
		return nil, err
	}
	return &model.Capacity{Capacities: caps, Demands: demands}, nil
}

func parsePickupDelivery(v any, key string) (model.PickupDelivery, error) {
	obj, err := asObject(v, key)
	if err != nil {
		return model.PickupDelivery{}, err
	}
	pv, ok := obj["pickup"]
	if !ok {
		return model.PickupDelivery{}, &ParseError{Key: path(key, "pickup"), Values: []string{"required"}}
	}
	pickup, err := asInt64(pv, path(key, "pickup"))
	if err != nil {
		return model.PickupDelivery{}, err
	}
	dv, ok := obj["drop"]
	if !ok {
		return model.PickupDelivery{}, &ParseError{Key: path(key, "drop"), Values: []string{"required"}}
	}
	drop, err := asInt64(dv, path(key, "drop"))
	if err != nil {
		return model.PickupDelivery{}, err
	}
	return model.PickupDelivery{Pickup: int(pickup), Delivery: int(drop)}, nil
}

func parseWithPickupAndDeliveries(root map[string]any) (*model.PickupDeliveryOption, error) {
	v, ok := root["withPickupAndDeliveries"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withPickupAndDeliveries")
	if err != nil {
		return nil, err
	}
	pdv, ok := obj["pickDrops"]
	if !ok {
		return nil, &ParseError{Key: "withPickupAndDeliveries.pickDrops", Values: []string{"required"}}
	}
	arr, err := asArray(pdv, "withPickupAndDeliveries.pickDrops")
	if err != nil {
		return nil, err
	}
	pairs := make([]model.PickupDelivery, len(arr))
	for i, ev := range arr {
		pd, err := parsePickupDelivery(ev, index("withPickupAndDeliveries.pickDrops", i))
		if err != nil {
			return nil, err
		}
		pairs[i] = pd
	}
	return &model.PickupDeliveryOption{Pairs: pairs}, nil
}

func parseTimeWindow(v any, key string) (model.TimeWindow, error) {
	obj, err := asObject(v, key)
	if err != nil {
		return model.TimeWindow{}, err
	}
	sv, ok := obj["start"]
	if !ok {
		return model.TimeWindow{}, &ParseError{Key: path(key, "start"), Values: []string{"required"}}
	}
	start, err := asInt64(sv, path(key, "start"))
	if err != nil {
		return model.TimeWindow{}, err
	}
	ev, ok := obj["end"]
	if !ok {
		return model.TimeWindow{}, &ParseError{Key: path(key, "end"), Values: []string{"required"}}
	}
	end, err := asInt64(ev, path(key, "end"))
	if err != nil {
		return model.TimeWindow{}, err
	}
	return model.TimeWindow{Start: start, End: end}, nil
}

func parseWithTimeWindows(root map[string]any) (*model.TimeWindowOption, error) {
	v, ok := root["withTimeWindows"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withTimeWindows")
	if err != nil {
		return nil, err
	}
	twv, ok := obj["timeWindows"]
	if !ok {
		return nil, &ParseError{Key: "withTimeWindows.timeWindows", Values: []string{"required"}}
	}
	rows, err := asArray(twv, "withTimeWindows.timeWindows")
	if err != nil {
		return nil, err
	}
	windows := make([][]model.TimeWindow, len(rows))
	for i, rv := range rows {
		rowKey := index("withTimeWindows.timeWindows", i)
		row, err := asArray(rv, rowKey)
		if err != nil {
			return nil, err
		}
		ws := make([]model.TimeWindow, len(row))
		for j, wv := range row {
			w, err := parseTimeWindow(wv, index(rowKey, j))
			if err != nil {
				return nil, err
			}
			ws[j] = w
		}
		windows[i] = ws
	}
	return &model.TimeWindowOption{Windows: windows}, nil
}

func parseWithServiceTime(root map[string]any) (*model.ServiceTimeOption, error) {
	v, ok := root["withServiceTime"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withServiceTime")
	if err != nil {
		return nil, err
	}
	st, err := parseInt64Array(obj, "serviceTime", "withServiceTime.serviceTime")
	if err != nil {
		return nil, err
	}
	return &model.ServiceTimeOption{ServiceTime: st}, nil
}

// parseWithDropPenalties implements the recommended, corrected behaviour for
// an object that carries neither "penalty" nor "penalties": treat it as
// equivalent to the whole option being absent, rather than silently
// producing an empty penalty block.
func parseWithDropPenalties(root map[string]any) (*model.DropPenalties, error) {
	v, ok := root["withDropPenalties"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withDropPenalties")
	if err != nil {
		return nil, err
	}
	if pv, ok := obj["penalty"]; ok {
		n, err := asInt64(pv, "withDropPenalties.penalty")
		if err != nil {
			return nil, err
		}
		return &model.DropPenalties{Global: &n}, nil
	}
	if _, ok := obj["penalties"]; ok {
		vec, err := parseInt64Array(obj, "penalties", "withDropPenalties.penalties")
		if err != nil {
			return nil, err
		}
		return &model.DropPenalties{PerNode: vec}, nil
	}
	return nil, nil
}

func parseWithVehicleBreakTime(root map[string]any) (*model.VehicleBreakTimeOption, error) {
	v, ok := root["withVehicleBreakTime"]
	if !ok {
		return nil, nil
	}
	obj, err := asObject(v, "withVehicleBreakTime")
	if err != nil {
		return nil, err
	}
	btv, ok := obj["breakTimes"]
	if !ok {
		return nil, &ParseError{Key: "withVehicleBreakTime.breakTimes", Values: []string{"required"}}
	}
	rows, err := asArray(btv, "withVehicleBreakTime.breakTimes")
	if err != nil {
		return nil, err
	}
	breaks := make([][]model.TimeWindow, len(rows))
	for i, rv := range rows {
		rowKey := index("withVehicleBreakTime.breakTimes", i)
		row, err := asArray(rv, rowKey)
		if err != nil {
			return nil, err
		}
		ws := make([]model.TimeWindow, len(row))
		for j, wv := range row {
			w, err := parseTimeWindow(wv, index(rowKey, j))
			if err != nil {
				return nil, err
			}
			ws[j] = w
		}
		breaks[i] = ws
	}
	return &model.VehicleBreakTimeOption{BreakTime: breaks}, nil
}
