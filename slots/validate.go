package slots

import (
	"strings"
	"time"

	"github.com/tbxark/bookingagent/types"
)

// Context carries the time reference the date validator needs. Threading it
// explicitly keeps validation pure: tests inject a fixed year instead of the
// validator reading the wall clock.
type Context struct {
	CurrentYear int
}

const (
	normalDateLayout = "2006-01-02"
	normalTimeLayout = "15:04"
)

var dateLayoutsWithYear = []string{
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
}

// Month-first, matching the tool-call schema the scheduler expects.
var dateLayoutsWithoutYear = []string{
	"1-2",
	"1/2",
	"Jan 2",
	"January 2",
}

var timeLayouts = []string{
	"15:04",
	"15",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// Validate checks a single raw value for a slot and returns its normalized
// form. It is deterministic and side-effect free; re-validating a normalized
// value yields the same result.
func Validate(slot types.Slot, raw string, ctx Context) (string, error) {
	switch slot {
	case types.SlotDate:
		return validateDate(raw, ctx)
	case types.SlotTime:
		return validateTime(raw)
	case types.SlotPurpose, types.SlotName:
		return validateText(slot, raw)
	default:
		return "", &types.Rejection{
			Slot:    slot,
			Code:    types.RejectEmptyValue,
			Message: "unknown slot",
		}
	}
}

func validateDate(raw string, ctx Context) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayoutsWithYear {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(normalDateLayout), nil
		}
	}
	for _, layout := range dateLayoutsWithoutYear {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		// The year was omitted, so default it to the caller's current year and
		// re-check the day: Feb 29 parses against the layout's zero year (a
		// leap year) but may not exist once the real year is injected.
		dated := time.Date(ctx.CurrentYear, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		if dated.Month() != parsed.Month() || dated.Day() != parsed.Day() {
			break
		}
		return dated.Format(normalDateLayout), nil
	}
	return "", &types.Rejection{
		Slot:    types.SlotDate,
		Code:    types.RejectInvalidDate,
		Message: "not a real calendar date: " + trimmed,
	}
}

func validateTime(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	candidates := []string{trimmed, strings.ToUpper(trimmed)}
	for _, candidate := range candidates {
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed.Format(normalTimeLayout), nil
			}
		}
	}
	return "", &types.Rejection{
		Slot:    types.SlotTime,
		Code:    types.RejectInvalidTime,
		Message: "could not understand time of day: " + trimmed,
	}
}

func validateText(slot types.Slot, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &types.Rejection{
			Slot:    slot,
			Code:    types.RejectEmptyValue,
			Message: string(slot) + " must not be empty",
		}
	}
	return trimmed, nil
}
