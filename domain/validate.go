package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPayload marks a payload rejected before it reaches the engine.
var ErrInvalidPayload = errors.New("invalid payload")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

// Validate checks the fields a loadsheet cannot be produced without.
func (r *LoadsheetRequest) Validate() error {
	if r.LoadDate.IsZero() {
		return invalid("load_date is required")
	}
	if strings.TrimSpace(r.LoadNumber) == "" {
		return invalid("load_number is required")
	}
	if strings.TrimSpace(r.CollectionPoint) == "" {
		return invalid("collection_point is required")
	}
	if strings.TrimSpace(r.DeliveryPoint) == "" {
		return invalid("delivery_point is required")
	}
	if strings.TrimSpace(r.FleetReg) == "" {
		return invalid("fleet_reg is required")
	}
	for i, car := range r.Cars {
		if strings.TrimSpace(car.Reg) == "" {
			return invalid("cars[%d].reg is required", i)
		}
		for name, flag := range map[string]Flag{"offloaded": car.Offloaded, "docs": car.Docs, "spare_keys": car.SpareKeys} {
			if !flag.valid() {
				return invalid("cars[%d].%s must be 'Y' or 'N'", i, name)
			}
		}
	}
	return nil
}

// Validate checks the fields a timesheet cannot be produced without.
func (r *TimesheetRequest) Validate() error {
	if r.WeekEnding.IsZero() {
		return invalid("week_ending (or week_end_date) is required for timesheets")
	}
	if strings.TrimSpace(r.Driver) == "" {
		return invalid("driver is required")
	}
	if len(r.FleetRegs) == 0 {
		return invalid("fleet_reg is required")
	}
	for i, day := range r.Days {
		if strings.TrimSpace(day.Day) == "" {
			return invalid("days[%d].day is required", i)
		}
	}
	return nil
}
