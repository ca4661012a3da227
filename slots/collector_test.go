package slots

import (
	"errors"
	"testing"

	"github.com/tbxark/bookingagent/types"
)

func TestRequiredOrder(t *testing.T) {
	tests := []struct {
		intent types.Intent
		want   []types.Slot
	}{
		{types.IntentBook, []types.Slot{types.SlotDate, types.SlotTime, types.SlotPurpose, types.SlotName}},
		{types.IntentCheck, []types.Slot{types.SlotDate, types.SlotTime}},
		{types.IntentCancel, []types.Slot{types.SlotName, types.SlotDate}},
	}
	for _, tt := range tests {
		got := Required(tt.intent)
		if len(got) != len(tt.want) {
			t.Fatalf("Required(%s) = %v, want %v", tt.intent, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Required(%s)[%d] = %s, want %s", tt.intent, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNextMissing(t *testing.T) {
	filled := map[types.Slot]string{}
	slot, ok := NextMissing(types.IntentBook, filled)
	if !ok || slot != types.SlotDate {
		t.Fatalf("empty book: got %s, %v", slot, ok)
	}

	filled[types.SlotDate] = "2024-12-25"
	filled[types.SlotPurpose] = "checkup"
	slot, ok = NextMissing(types.IntentBook, filled)
	if !ok || slot != types.SlotTime {
		t.Fatalf("skips filled out of order: got %s, %v", slot, ok)
	}

	filled[types.SlotTime] = "10:00"
	filled[types.SlotName] = "Jane"
	if slot, ok = NextMissing(types.IntentBook, filled); ok {
		t.Fatalf("all filled: unexpectedly missing %s", slot)
	}

	slot, ok = NextMissing(types.IntentCancel, map[types.Slot]string{})
	if !ok || slot != types.SlotName {
		t.Fatalf("cancel starts with name: got %s, %v", slot, ok)
	}
}

func TestFillNormalizesAndStores(t *testing.T) {
	filled := map[types.Slot]string{}
	fc := FillContext{Validate: Context{CurrentYear: 2024}}
	value, err := Fill(types.IntentBook, filled, types.SlotDate, "12/25", fc)
	if err != nil {
		t.Fatalf("Fill date: %v", err)
	}
	if value != "2024-12-25" || filled[types.SlotDate] != "2024-12-25" {
		t.Errorf("got %q, filled=%v", value, filled)
	}
}

func TestFillRejectionLeavesMapUntouched(t *testing.T) {
	filled := map[types.Slot]string{types.SlotDate: "2024-12-25"}
	fc := FillContext{Validate: Context{CurrentYear: 2024}}
	if _, err := Fill(types.IntentBook, filled, types.SlotDate, "02-30", fc); err == nil {
		t.Fatal("expected rejection")
	}
	if filled[types.SlotDate] != "2024-12-25" {
		t.Errorf("rejected fill mutated map: %v", filled)
	}
}

func TestFillBookTimeMustBeOffered(t *testing.T) {
	fc := FillContext{
		Validate:     Context{CurrentYear: 2024},
		OfferedTimes: []string{"10:00", "14:00"},
	}

	filled := map[types.Slot]string{}
	_, err := Fill(types.IntentBook, filled, types.SlotTime, "09:00", fc)
	var rejection *types.Rejection
	if !errors.As(err, &rejection) || rejection.Code != types.RejectSlotNotOffered {
		t.Fatalf("valid but unoffered time: got %v", err)
	}
	if _, ok := filled[types.SlotTime]; ok {
		t.Error("rejected time was stored")
	}

	value, err := Fill(types.IntentBook, filled, types.SlotTime, "2 PM", fc)
	if err != nil {
		t.Fatalf("offered time spelled differently: %v", err)
	}
	if value != "14:00" {
		t.Errorf("got %q, want offered form 14:00", value)
	}
}

func TestFillCheckTimeNotRestricted(t *testing.T) {
	// Only booking is restricted to offered times; a status check may ask
	// about any valid time.
	filled := map[types.Slot]string{}
	fc := FillContext{Validate: Context{CurrentYear: 2024}}
	if _, err := Fill(types.IntentCheck, filled, types.SlotTime, "09:00", fc); err != nil {
		t.Fatalf("check time should not require an offer: %v", err)
	}
}
