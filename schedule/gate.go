package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbxark/bookingagent/types"
)

// requiredArgs is the argument schema per tool. CanInvoke and the guarded
// invoke methods are both derived from it.
var requiredArgs = map[types.Tool][]types.Slot{
	types.ToolGetFreeSlots:      {types.SlotDate},
	types.ToolAppointmentSaved:  {types.SlotDate, types.SlotTime, types.SlotPurpose, types.SlotName},
	types.ToolCheckSlotStatus:   {types.SlotDate, types.SlotTime},
	types.ToolCancelAppointment: {types.SlotName, types.SlotDate},
}

// Gate is the single choke point in front of the backend. Every external
// call goes through a guarded method that re-checks argument completeness;
// reaching one with a missing argument is a programming error, not a
// recoverable failure, so the call is refused before the backend sees it.
type Gate struct {
	backend Backend
}

func NewGate(backend Backend) *Gate {
	return &Gate{backend: backend}
}

// CanInvoke reports whether every required argument for tool is present in
// filled.
func (g *Gate) CanInvoke(tool types.Tool, filled map[types.Slot]string) bool {
	required, ok := requiredArgs[tool]
	if !ok {
		return false
	}
	for _, slot := range required {
		if filled[slot] == "" {
			return false
		}
	}
	return true
}

func (g *Gate) check(tool types.Tool, filled map[types.Slot]string) error {
	if !g.CanInvoke(tool, filled) {
		return fmt.Errorf("precondition violation: %s invoked with incomplete arguments", tool)
	}
	return nil
}

func (g *Gate) FreeSlots(ctx context.Context, filled map[types.Slot]string) ([]string, error) {
	if err := g.check(types.ToolGetFreeSlots, filled); err != nil {
		return nil, err
	}
	slog.Debug("invoking tool", "tool", types.ToolGetFreeSlots, "date", filled[types.SlotDate])
	return g.backend.FreeSlots(ctx, filled[types.SlotDate])
}

func (g *Gate) Save(ctx context.Context, filled map[types.Slot]string) (bool, error) {
	if err := g.check(types.ToolAppointmentSaved, filled); err != nil {
		return false, err
	}
	appt := types.Appointment{
		Date:    filled[types.SlotDate],
		Time:    filled[types.SlotTime],
		Purpose: filled[types.SlotPurpose],
		Name:    filled[types.SlotName],
	}
	slog.Debug("invoking tool", "tool", types.ToolAppointmentSaved, "date", appt.Date, "time", appt.Time)
	return g.backend.Save(ctx, appt)
}

func (g *Gate) SlotStatus(ctx context.Context, filled map[types.Slot]string) (types.SlotStatus, error) {
	if err := g.check(types.ToolCheckSlotStatus, filled); err != nil {
		return "", err
	}
	slog.Debug("invoking tool", "tool", types.ToolCheckSlotStatus, "date", filled[types.SlotDate], "time", filled[types.SlotTime])
	return g.backend.SlotStatus(ctx, filled[types.SlotDate], filled[types.SlotTime])
}

func (g *Gate) Cancel(ctx context.Context, filled map[types.Slot]string) (bool, error) {
	if err := g.check(types.ToolCancelAppointment, filled); err != nil {
		return false, err
	}
	slog.Debug("invoking tool", "tool", types.ToolCancelAppointment, "date", filled[types.SlotDate], "name", filled[types.SlotName])
	return g.backend.Cancel(ctx, filled[types.SlotName], filled[types.SlotDate])
}
