package ingest

import "example.com/vrp-routing-service/internal/routing/model"

// TypedRequest is the structured (already-decoded, language-native) form of
// a routing request. It carries the same fields as model.RoutingModel. A
// zero NumVehicles or TimeLimitSeconds stands for "not given" and is
// defaulted by FromTyped, so unlike FromJSON an explicit zero cannot be told
// apart from an absent value.
type TypedRequest struct {
	DurationMatrix   model.DurationMatrix
	Depot            model.DepotConfig
	NumVehicles      int32
	TimeLimitSeconds int64

	Capacity         *model.Capacity
	PickupDelivery   *model.PickupDeliveryOption
	TimeWindows      *model.TimeWindowOption
	ServiceTime      *model.ServiceTimeOption
	DropPenalties    *model.DropPenalties
	VehicleBreakTime *model.VehicleBreakTimeOption
}

// FromTyped projects a TypedRequest straight into a RoutingModel, applying
// the same defaults FromJSON applies to an absent numVehicles/apiTimeLimit:
// one vehicle, a one second search budget.
func FromTyped(r TypedRequest) model.RoutingModel {
	numVehicles := r.NumVehicles
	if numVehicles == 0 {
		numVehicles = 1
	}
	timeLimit := r.TimeLimitSeconds
	if timeLimit == 0 {
		timeLimit = 1
	}
	depot := r.Depot
	if depot == nil {
		depot = model.SingleDepot{Depot: 0}
	}
	return model.RoutingModel{
		DurationMatrix:   r.DurationMatrix,
		Depot:            depot,
		NumVehicles:      numVehicles,
		TimeLimitSeconds: timeLimit,
		Capacity:         r.Capacity,
		PickupDelivery:   r.PickupDelivery,
		TimeWindows:      r.TimeWindows,
		ServiceTime:      r.ServiceTime,
		DropPenalties:    r.DropPenalties,
		VehicleBreakTime: r.VehicleBreakTime,
	}
}
