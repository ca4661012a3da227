package types

import (
	"strings"
	"testing"
)

func TestFormatTurnContext(t *testing.T) {
	rendered := FormatTurnContext(&TurnContext{
		Intent: IntentBook,
		Phase:  PhaseCollecting,
		Filled: map[Slot]string{
			SlotDate: "2024-12-25",
		},
		Missing:      []Slot{SlotTime, SlotPurpose, SlotName},
		OfferedTimes: []string{"10:00", "14:00"},
		Question:     "Which time would you like?",
		Answer:       "the morning one",
	})

	for _, want := range []string{
		"# Conversation intent:\nbook",
		"# Dialogue phase:\ncollecting",
		"## Assistant question:\nWhich time would you like?",
		"## User answer:\nthe morning one",
		"# Collected values:",
		"2024-12-25",
		"# Still missing:",
		"/time",
		"# Offered time slots (user must pick one):",
		"- 10:00",
		"- 14:00",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered context missing %q:\n%s", want, rendered)
		}
	}
}

func TestFormatTurnContextOmitsEmptySections(t *testing.T) {
	rendered := FormatTurnContext(&TurnContext{Phase: PhaseIntentSelection})
	for _, absent := range []string{"# Collected values:", "# Still missing:", "# Offered time slots", "# Conversation intent:"} {
		if strings.Contains(rendered, absent) {
			t.Errorf("empty section rendered: %q in\n%s", absent, rendered)
		}
	}
	if !strings.Contains(rendered, "# Current date:") {
		t.Error("current date section missing")
	}
}

func TestFormatTurnContextRejection(t *testing.T) {
	rendered := FormatTurnContext(&TurnContext{
		Phase: PhaseCollecting,
		Rejection: &Rejection{
			Slot:    SlotDate,
			Code:    RejectInvalidDate,
			Message: "not a real calendar date: 02-30",
		},
	})
	if !strings.Contains(rendered, "# Last value was rejected:") || !strings.Contains(rendered, "invalid_date") {
		t.Errorf("rejection section missing:\n%s", rendered)
	}
}

func TestSlotDisplayName(t *testing.T) {
	if got := SlotPurpose.DisplayName(); got != "Purpose" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := Slot("other").DisplayName(); got != "other" {
		t.Errorf("unknown slot DisplayName = %q", got)
	}
}
