package agent

import (
	"strings"
	"testing"

	"github.com/tbxark/bookingagent/types"
)

func TestCheckpointRoundtrip(t *testing.T) {
	session := NewSession()
	session.Intent = types.IntentBook
	session.Phase = types.PhaseCollecting
	session.Slots[types.SlotDate] = "2024-12-25"
	session.CurrentSlot = types.SlotTime
	session.OfferedTimes = []string{"10:00", "14:00"}
	session.LastQuestion = "Which time would you like?"

	data, err := session.MarshalCheckpoint()
	if err != nil {
		t.Fatalf("MarshalCheckpoint: %v", err)
	}

	restored, err := RestoreCheckpoint(data)
	if err != nil {
		t.Fatalf("RestoreCheckpoint: %v", err)
	}
	if restored.Intent != session.Intent || restored.Phase != session.Phase {
		t.Errorf("restored %s/%s, want %s/%s", restored.Intent, restored.Phase, session.Intent, session.Phase)
	}
	if restored.Slots[types.SlotDate] != "2024-12-25" {
		t.Errorf("slots = %v", restored.Slots)
	}
	if restored.CurrentSlot != types.SlotTime {
		t.Errorf("cursor = %s", restored.CurrentSlot)
	}
	if len(restored.OfferedTimes) != 2 || restored.OfferedTimes[0] != "10:00" {
		t.Errorf("offered = %v", restored.OfferedTimes)
	}
	if restored.LastQuestion != session.LastQuestion {
		t.Errorf("last question = %q", restored.LastQuestion)
	}
}

func TestRestoreCheckpointRejectsUnknownVersion(t *testing.T) {
	data := []byte(`{"version":"9.9","session":{"phase":"greeting"},"timestamp":"2024-06-01T12:00:00Z"}`)
	if _, err := RestoreCheckpoint(data); err == nil || !strings.Contains(err.Error(), "incompatible") {
		t.Fatalf("err = %v", err)
	}
}

func TestRestoreCheckpointNilSlots(t *testing.T) {
	data := []byte(`{"version":"1.0","session":{"intent":"book","phase":"collecting"},"timestamp":"2024-06-01T12:00:00Z"}`)
	restored, err := RestoreCheckpoint(data)
	if err != nil {
		t.Fatalf("RestoreCheckpoint: %v", err)
	}
	if restored.Slots == nil {
		t.Fatal("restored session must carry a usable slot map")
	}
}

func TestSessionReset(t *testing.T) {
	session := NewSession()
	session.Intent = types.IntentCancel
	session.Phase = types.PhaseCompleted
	session.Slots[types.SlotName] = "Jane"
	session.Closed = true

	session.Reset()
	if session.Intent != types.IntentUnset || session.Phase != types.PhaseGreeting {
		t.Errorf("reset left %s/%s", session.Intent, session.Phase)
	}
	if len(session.Slots) != 0 || session.Closed {
		t.Errorf("reset left state: %+v", session)
	}
}

func TestSlotsCopyDoesNotAlias(t *testing.T) {
	session := NewSession()
	session.Slots[types.SlotDate] = "2024-12-25"
	snapshot := session.SlotsCopy()
	snapshot[types.SlotDate] = "mutated"
	if session.Slots[types.SlotDate] != "2024-12-25" {
		t.Error("SlotsCopy aliases the live map")
	}
}
