package instruction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
)

// Result reports whether an instruction was applied and what the operator should be told
type Result struct {
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

func rejected(msg string) Result {
	return Result{Message: msg}
}

// Apply validates ins against ws and, on success, overwrites exactly the targeted value.
// A rejected instruction leaves ws untouched. Apply never re-solves.
func Apply(ws *models.WorkingSet, ins Instruction) Result {
	switch in := ins.(type) {
	case UpdateStaffField:
		return applyStaff(ws, in)
	case SetDemand:
		i, ok := ws.DemandIndex(in.Day)
		if !ok {
			return rejected(constants.MsgInvalidDay)
		}
		if in.Value < 0 {
			return rejected(constants.MsgNegative)
		}
		if in.Value > MaxCount {
			return rejected(constants.MsgTooLarge)
		}
		ws.Demand[i].RequiredCount = in.Value
		return Result{Applied: true, Message: fmt.Sprintf("Updated %s staff requirement to %d.", in.Day, in.Value)}
	case AdjustDemandDelta:
		i, ok := ws.DemandIndex(in.Day)
		if !ok {
			return rejected(constants.MsgInvalidDay)
		}
		next := adjustCount(ws.Demand[i].RequiredCount, in.Delta)
		ws.Demand[i].RequiredCount = next
		return Result{Applied: true, Message: fmt.Sprintf("Updated %s staff requirement by %d → %d.", in.Day, in.Delta, next)}
	}
	return rejected(constants.MsgUnknownType)
}

func applyStaff(ws *models.WorkingSet, in UpdateStaffField) Result {
	i, ok := ws.StaffIndex(in.StaffName)
	field := NormalizeField(in.Field)
	if !ok || !numericField(field) {
		return rejected(constants.MsgInvalidStaff)
	}
	if in.Value.IsNegative() {
		return rejected(constants.MsgNegative)
	}

	if field != constants.FieldCost && in.Value.GreaterThan(decimal.NewFromInt(MaxCount)) {
		return rejected(constants.MsgTooLarge)
	}

	member := &ws.Staff[i]
	shown := in.Value.String()
	switch field {
	case constants.FieldCost:
		member.DailyCost = in.Value
	case constants.FieldMinDays:
		member.MinWorkDays = int(in.Value.IntPart())
		shown = fmt.Sprint(member.MinWorkDays)
	case constants.FieldMaxDays:
		member.MaxWorkDays = int(in.Value.IntPart())
		shown = fmt.Sprint(member.MaxWorkDays)
	}
	return Result{Applied: true, Message: fmt.Sprintf("Updated %s - %s set to %s.", in.StaffName, field, shown)}
}

// adjustCount adds delta to cur, clamped to [0, MaxCount] without overflowing
func adjustCount(cur, delta int) int {
	switch {
	case delta < 0 && delta < -cur:
		return 0
	case delta > 0 && cur > MaxCount-delta:
		return MaxCount
	}
	return max(0, cur+delta)
}
