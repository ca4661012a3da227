package slots

import (
	"strings"

	"github.com/tbxark/bookingagent/types"
)

// requiredByIntent fixes the collection order per intent. The cursor always
// points at the first missing entry of this list, so collection is monotonic.
var requiredByIntent = map[types.Intent][]types.Slot{
	types.IntentBook:   {types.SlotDate, types.SlotTime, types.SlotPurpose, types.SlotName},
	types.IntentCheck:  {types.SlotDate, types.SlotTime},
	types.IntentCancel: {types.SlotName, types.SlotDate},
}

// Required returns the ordered slot list for an intent.
func Required(intent types.Intent) []types.Slot {
	return requiredByIntent[intent]
}

// NextMissing returns the first required slot not yet present in filled.
func NextMissing(intent types.Intent, filled map[types.Slot]string) (types.Slot, bool) {
	for _, slot := range requiredByIntent[intent] {
		if _, ok := filled[slot]; !ok {
			return slot, true
		}
	}
	return "", false
}

// FillContext carries per-turn constraints for Fill: the validation time
// reference and, while booking, the admissible time choices returned by the
// latest get_free_slots call.
type FillContext struct {
	Validate     Context
	OfferedTimes []string
}

// Fill validates raw for slot and, on success, writes the normalized value
// into filled and returns it. While booking, a time value must match one of
// the offered choices or the fill is rejected with RejectSlotNotOffered
// before any external call can see it.
func Fill(intent types.Intent, filled map[types.Slot]string, slot types.Slot, raw string, fc FillContext) (string, error) {
	value, err := Validate(slot, raw, fc.Validate)
	if err != nil {
		return "", err
	}
	if intent == types.IntentBook && slot == types.SlotTime {
		matched, ok := matchOffered(value, fc.OfferedTimes)
		if !ok {
			return "", &types.Rejection{
				Slot:    types.SlotTime,
				Code:    types.RejectSlotNotOffered,
				Message: value + " is not among the offered time slots",
			}
		}
		value = matched
	}
	filled[slot] = value
	return value, nil
}

// matchOffered compares a normalized time against the offered values, which
// come back from the scheduler in whatever format it stores. Offered values
// are normalized through the same time validator before comparison.
func matchOffered(value string, offered []string) (string, bool) {
	for _, candidate := range offered {
		normalized, err := validateTime(candidate)
		if err != nil {
			normalized = strings.TrimSpace(candidate)
		}
		if normalized == value || strings.TrimSpace(candidate) == value {
			return strings.TrimSpace(candidate), true
		}
	}
	return "", false
}
