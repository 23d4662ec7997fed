package builder

import (
	"fmt"

	"example.com/vrp-routing-service/internal/routing/model"
)

// ValidationError reports that a RoutingModel violates one of the data
// model's invariants. Invariant names the failing rule (e.g.
// "capacity.size_mismatch") so callers can act on it programmatically;
// Message is a human-readable elaboration.
type ValidationError struct {
	Invariant string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Invariant, e.Message)
}

func fail(invariant, format string, args ...any) error {
	return &ValidationError{Invariant: invariant, Message: fmt.Sprintf(format, args...)}
}

// validate checks the invariants of §3 of the data model, stopping at the
// first violation. It never mutates m and never inspects the CP engine;
// that separation lets C4's rewrites assume they only ever see a model that
// has already passed here.
func validate(m model.RoutingModel) error {
	n := len(m.DurationMatrix)

	if err := validateMatrix(m.DurationMatrix); err != nil {
		return err
	}
	if m.NumVehicles <= 0 {
		return fail("num_vehicles.positive", "num_vehicles must be > 0, got %d", m.NumVehicles)
	}
	if m.TimeLimitSeconds <= 0 {
		return fail("time_limit.positive", "time_limit_seconds must be > 0, got %d", m.TimeLimitSeconds)
	}
	if err := validateDepot(m.Depot, n, int(m.NumVehicles)); err != nil {
		return err
	}
	if err := validateCapacity(m.Capacity, n, int(m.NumVehicles)); err != nil {
		return err
	}
	if err := validatePickupDelivery(m.PickupDelivery, n); err != nil {
		return err
	}
	if err := validateTimeWindows(m.TimeWindows, n); err != nil {
		return err
	}
	if err := validateServiceTime(m.ServiceTime, n); err != nil {
		return err
	}
	if err := validateDropPenalties(m.DropPenalties, n); err != nil {
		return err
	}
	if err := validateVehicleBreakTime(m.VehicleBreakTime, int(m.NumVehicles)); err != nil {
		return err
	}
	return nil
}

func validateMatrix(matrix model.DurationMatrix) error {
	n := len(matrix)
	if n == 0 {
		return fail("matrix.non_empty", "duration matrix must have at least one node")
	}
	for i, row := range matrix {
		if len(row) != n {
			return fail("matrix.square", "row %d has length %d, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v < 0 {
				return fail("matrix.non_negative", "matrix[%d][%d] = %d is negative", i, j, v)
			}
		}
		if row[i] != 0 {
			return fail("matrix.zero_diagonal", "matrix[%d][%d] = %d, want 0", i, i, row[i])
		}
	}
	return nil
}

func inRangeOrOpen(v int32, n int) bool {
	return v == model.OpenRoute || (v >= 0 && int(v) < n)
}

func validateDepot(d model.DepotConfig, n, numVehicles int) error {
	switch depot := d.(type) {
	case model.SingleDepot:
		if !inRangeOrOpen(depot.Depot, n) {
			return fail("depot.range", "depot %d out of range [0,%d) (or -1)", depot.Depot, n)
		}
	case model.StartEndPair:
		if len(depot.Starts) != numVehicles {
			return fail("depot.start_end.size", "starts has %d entries, want %d", len(depot.Starts), numVehicles)
		}
		if len(depot.Ends) != numVehicles {
			return fail("depot.start_end.size", "ends has %d entries, want %d", len(depot.Ends), numVehicles)
		}
		for i, s := range depot.Starts {
			if !inRangeOrOpen(s, n) {
				return fail("depot.range", "starts[%d] = %d out of range [0,%d) (or -1)", i, s, n)
			}
		}
		for i, e := range depot.Ends {
			if !inRangeOrOpen(e, n) {
				return fail("depot.range", "ends[%d] = %d out of range [0,%d) (or -1)", i, e, n)
			}
		}
	default:
		return fail("depot.unknown_type", "unknown depot config type %T", d)
	}
	return nil
}

func validateCapacity(c *model.Capacity, n, numVehicles int) error {
	if c == nil {
		return nil
	}
	if len(c.Capacities) != numVehicles {
		return fail("capacity.size_mismatch", "capacities has %d entries, want %d", len(c.Capacities), numVehicles)
	}
	for i, v := range c.Capacities {
		if v <= 0 {
			return fail("capacity.positive", "capacities[%d] = %d, want > 0", i, v)
		}
	}
	if len(c.Demands) != n {
		return fail("capacity.demands.size_mismatch", "demands has %d entries, want %d", len(c.Demands), n)
	}
	for i, v := range c.Demands {
		if v < 0 {
			return fail("capacity.demands.non_negative", "demands[%d] = %d, want >= 0", i, v)
		}
	}
	return nil
}

func validatePickupDelivery(p *model.PickupDeliveryOption, n int) error {
	if p == nil {
		return nil
	}
	if len(p.Pairs) == 0 {
		return fail("pickup_delivery.non_empty", "pickup/delivery pairs must not be empty when the option is present")
	}
	for i, pair := range p.Pairs {
		if pair.Pickup < 0 || pair.Pickup >= n {
			return fail("pickup_delivery.range", "pairs[%d].pickup = %d out of range [0,%d)", i, pair.Pickup, n)
		}
		if pair.Delivery < 0 || pair.Delivery >= n {
			return fail("pickup_delivery.range", "pairs[%d].delivery = %d out of range [0,%d)", i, pair.Delivery, n)
		}
		if pair.Pickup == pair.Delivery {
			return fail("pickup_delivery.distinct", "pairs[%d] has pickup == delivery == %d", i, pair.Pickup)
		}
	}
	return nil
}

func validateTimeWindows(t *model.TimeWindowOption, n int) error {
	if t == nil {
		return nil
	}
	if len(t.Windows) != n {
		return fail("time_windows.size_mismatch", "windows has %d entries, want %d", len(t.Windows), n)
	}
	for i, ws := range t.Windows {
		for j, w := range ws {
			if w.Start < 0 || w.Start > w.End {
				return fail("time_windows.well_formed", "windows[%d][%d] = {%d,%d} is not 0 <= start <= end", i, j, w.Start, w.End)
			}
		}
	}
	return nil
}

func validateServiceTime(s *model.ServiceTimeOption, n int) error {
	if s == nil {
		return nil
	}
	if len(s.ServiceTime) != n {
		return fail("service_time.size_mismatch", "service_time has %d entries, want %d", len(s.ServiceTime), n)
	}
	for i, v := range s.ServiceTime {
		if v < 0 {
			return fail("service_time.non_negative", "service_time[%d] = %d, want >= 0", i, v)
		}
	}
	return nil
}

func validateDropPenalties(p *model.DropPenalties, n int) error {
	if p == nil {
		return nil
	}
	if p.IsVector() {
		if len(p.PerNode) != n {
			return fail("drop_penalties.size_mismatch", "penalties has %d entries, want %d", len(p.PerNode), n)
		}
		for i, v := range p.PerNode {
			if v < 0 {
				return fail("drop_penalties.non_negative", "penalties[%d] = %d, want >= 0", i, v)
			}
		}
		return nil
	}
	if p.Global == nil {
		return fail("drop_penalties.empty", "drop penalties option present but carries neither a scalar nor a vector")
	}
	if *p.Global < 0 {
		return fail("drop_penalties.non_negative", "penalty = %d, want >= 0", *p.Global)
	}
	return nil
}

func validateVehicleBreakTime(v *model.VehicleBreakTimeOption, numVehicles int) error {
	if v == nil {
		return nil
	}
	if len(v.BreakTime) != numVehicles {
		return fail("vehicle_break_time.size_mismatch", "break_time has %d entries, want %d", len(v.BreakTime), numVehicles)
	}
	for i, breaks := range v.BreakTime {
		if len(breaks) == 0 {
			return fail("vehicle_break_time.non_empty", "break_time[%d] must be non-empty", i)
		}
		for j, w := range breaks {
			if w.Start < 0 || w.Start > w.End {
				return fail("vehicle_break_time.well_formed", "break_time[%d][%d] = {%d,%d} is not 0 <= start <= end", i, j, w.Start, w.End)
			}
		}
	}
	return nil
}
