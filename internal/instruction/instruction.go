// Package instruction turns operator text into typed edits of the working set and applies them.
package instruction

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Kind is the wire discriminator of an instruction
type Kind string

const (
	KindUpdateStaff       Kind = "update_staff"
	KindUpdateDemand      Kind = "update_demand"
	KindUpdateDemandDelta Kind = "update_demand_delta"
)

// MaxCount bounds day counts and demand values carried by an instruction
const MaxCount = math.MaxInt32

// Instruction is one validated-on-apply mutation of the working set
type Instruction interface {
	Kind() Kind
	// Wire returns the JSON mapping shape understood by Decode
	Wire() map[string]any
}

// UpdateStaffField overwrites one attribute of a named staff member
type UpdateStaffField struct {
	StaffName string
	Field     string
	Value     decimal.Decimal
}

func (u UpdateStaffField) Kind() Kind { return KindUpdateStaff }

func (u UpdateStaffField) Wire() map[string]any {
	return map[string]any{
		"type":       string(KindUpdateStaff),
		"staff_name": u.StaffName,
		"field":      u.Field,
		"value":      u.Value,
	}
}

func (u UpdateStaffField) String() string {
	return fmt.Sprintf("set %s %s to %s", u.StaffName, u.Field, u.Value)
}

// SetDemand overwrites the required headcount of a day
type SetDemand struct {
	Day   string
	Value int
}

func (s SetDemand) Kind() Kind { return KindUpdateDemand }

func (s SetDemand) Wire() map[string]any {
	return map[string]any{"type": string(KindUpdateDemand), "day": s.Day, "value": s.Value}
}

func (s SetDemand) String() string {
	return fmt.Sprintf("set %s requirement to %d", s.Day, s.Value)
}

// AdjustDemandDelta shifts the required headcount of a day, clamped at zero
type AdjustDemandDelta struct {
	Day   string
	Delta int
}

func (a AdjustDemandDelta) Kind() Kind { return KindUpdateDemandDelta }

func (a AdjustDemandDelta) Wire() map[string]any {
	return map[string]any{"type": string(KindUpdateDemandDelta), "day": a.Day, "delta": a.Delta}
}

func (a AdjustDemandDelta) String() string {
	return fmt.Sprintf("adjust %s requirement by %+d", a.Day, a.Delta)
}
