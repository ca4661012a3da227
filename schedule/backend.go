package schedule

import (
	"context"

	"github.com/tbxark/bookingagent/types"
)

// Backend is the collaborator surface for the four scheduling operations. The
// dialogue core never touches storage directly; it only decides when each of
// these may be called and with what arguments.
type Backend interface {
	// FreeSlots returns the available time values for a normalized date.
	FreeSlots(ctx context.Context, date string) ([]string, error)
	// Save persists a complete appointment. It reports false when the slot
	// was not available to book.
	Save(ctx context.Context, appt types.Appointment) (bool, error)
	// SlotStatus reports whether a date/time slot is booked or available.
	SlotStatus(ctx context.Context, date, timeOfDay string) (types.SlotStatus, error)
	// Cancel removes the appointment matching name and date. It reports
	// false when no matching booking exists.
	Cancel(ctx context.Context, name, date string) (bool, error)
}
