package types

import "fmt"

// Intent is the high-level goal of a conversation. It is resolved once and
// stays fixed for the life of the session; the only sanctioned change is the
// check-to-book hand-off when a checked slot turns out to be available.
type Intent string

const (
	IntentUnset     Intent = ""
	IntentBook      Intent = "book"
	IntentCheck     Intent = "check"
	IntentCancel    Intent = "cancel"
	IntentAmbiguous Intent = "ambiguous"
)

// Phase is the current node of the dialogue state machine.
type Phase string

const (
	PhaseGreeting        Phase = "greeting"
	PhaseIntentSelection Phase = "intent_selection"
	PhaseCollecting      Phase = "collecting"
	PhaseAwaitingTool    Phase = "awaiting_tool_result"
	PhaseConfirming      Phase = "confirming"
	PhaseCompleted       Phase = "completed"
	PhaseError           Phase = "error"
)

// Slot names one datum collected from the user.
type Slot string

const (
	SlotDate    Slot = "date"
	SlotTime    Slot = "time"
	SlotPurpose Slot = "purpose"
	SlotName    Slot = "name"
)

// Tool names one of the external scheduling operations. The names mirror the
// tool-call schemas exposed to collaborators.
type Tool string

const (
	ToolGetFreeSlots      Tool = "get_free_slots"
	ToolAppointmentSaved  Tool = "appointment_saved"
	ToolCheckSlotStatus   Tool = "check_slot_status"
	ToolCancelAppointment Tool = "cancel_appointment"
)

// RejectionCode classifies why a slot value was refused. All of these are
// recoverable: the same slot is asked again.
type RejectionCode string

const (
	RejectInvalidDate    RejectionCode = "invalid_date"
	RejectInvalidTime    RejectionCode = "invalid_time"
	RejectEmptyValue     RejectionCode = "empty_value"
	RejectSlotNotOffered RejectionCode = "slot_not_offered"
)

// Rejection is returned by validators and the collector when a raw value
// cannot be accepted for a slot.
type Rejection struct {
	Slot    Slot          `json:"slot"`
	Code    RejectionCode `json:"code"`
	Message string        `json:"message"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("slot %s rejected (%s): %s", r.Slot, r.Code, r.Message)
}

// SlotStatus is the outcome of check_slot_status.
type SlotStatus string

const (
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusAvailable SlotStatus = "available"
)

// Appointment is the complete argument set for appointment_saved. Every field
// holds a validated, normalized value.
type Appointment struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Purpose string `json:"purpose"`
	Name    string `json:"name"`
}
