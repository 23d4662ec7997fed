// Package builder accumulates a RoutingModel through a fluent, side-effect
// free builder and validates it against the invariants of the data model
// before it is handed to the pre-solve rewriter. Shape checks live here;
// semantic rewrites (dummy nodes, duplication) live one layer up, in
// package rewrite, so that C4 never has to reason about malformed input.
package builder

import "example.com/vrp-routing-service/internal/routing/model"

// RoutingBuilder accumulates fields onto a RoutingModel. Every setter
// returns the receiver so calls can be chained; none of them touch a
// solver or perform I/O.
type RoutingBuilder struct {
	m model.RoutingModel
}

// New starts a builder from the required defaults: one vehicle, a one
// second search budget, depot at node 0.
func New() *RoutingBuilder {
	return &RoutingBuilder{m: model.RoutingModel{
		Depot:            model.SingleDepot{Depot: 0},
		NumVehicles:      1,
		TimeLimitSeconds: 1,
	}}
}

// FromModel starts a builder pre-populated from an already-assembled
// RoutingModel, e.g. the output of package ingest.
func FromModel(m model.RoutingModel) *RoutingBuilder {
	return &RoutingBuilder{m: m}
}

func (b *RoutingBuilder) DurationMatrix(m model.DurationMatrix) *RoutingBuilder {
	b.m.DurationMatrix = m
	return b
}

func (b *RoutingBuilder) Depot(d model.DepotConfig) *RoutingBuilder {
	b.m.Depot = d
	return b
}

func (b *RoutingBuilder) NumVehicles(v int32) *RoutingBuilder {
	b.m.NumVehicles = v
	return b
}

func (b *RoutingBuilder) TimeLimitSeconds(s int64) *RoutingBuilder {
	b.m.TimeLimitSeconds = s
	return b
}

func (b *RoutingBuilder) WithCapacity(c model.Capacity) *RoutingBuilder {
	b.m.Capacity = &c
	return b
}

func (b *RoutingBuilder) WithPickupDelivery(p model.PickupDeliveryOption) *RoutingBuilder {
	b.m.PickupDelivery = &p
	return b
}

func (b *RoutingBuilder) WithTimeWindows(t model.TimeWindowOption) *RoutingBuilder {
	b.m.TimeWindows = &t
	return b
}

func (b *RoutingBuilder) WithServiceTime(s model.ServiceTimeOption) *RoutingBuilder {
	b.m.ServiceTime = &s
	return b
}

func (b *RoutingBuilder) WithDropPenalties(p model.DropPenalties) *RoutingBuilder {
	b.m.DropPenalties = &p
	return b
}

func (b *RoutingBuilder) WithVehicleBreakTime(v model.VehicleBreakTimeOption) *RoutingBuilder {
	b.m.VehicleBreakTime = &v
	return b
}

// Build validates the accumulated model against every invariant in the data
// model and, on success, wraps it as a fresh RoutingProblem ready for
// pre-solve rewriting.
func (b *RoutingBuilder) Build() (*model.RoutingProblem, error) {
	if err := validate(b.m); err != nil {
		return nil, err
	}
	return model.NewRoutingProblem(b.m), nil
}
