package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

var slotDisplayNames = map[Slot]string{
	SlotDate:    "Date",
	SlotTime:    "Time",
	SlotPurpose: "Purpose",
	SlotName:    "Name",
}

// DisplayName returns a human-readable label for a slot.
func (s Slot) DisplayName() string {
	if name, ok := slotDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// TurnContext is the snapshot handed to LLM-backed components so the model
// sees the same picture of the conversation that the state machine does.
type TurnContext struct {
	Intent       Intent
	Phase        Phase
	Filled       map[Slot]string
	Missing      []Slot
	OfferedTimes []string
	Question     string
	Answer       string
	Rejection    *Rejection
}

func formatFilledSlotsSection(filled map[Slot]string) string {
	if len(filled) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Collected values:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Slot", "Value")
	for _, slot := range []Slot{SlotDate, SlotTime, SlotPurpose, SlotName} {
		if value, ok := filled[slot]; ok {
			_ = table.Append(slot.DisplayName(), value)
		}
	}
	_ = table.Render()
	return buf.String()
}

func formatMissingSlotsSection(missing []Slot) string {
	if len(missing) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Still missing:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Slot", "Pointer")
	for _, slot := range missing {
		_ = table.Append(slot.DisplayName(), "/"+string(slot))
	}
	_ = table.Render()
	return buf.String()
}

// FormatOfferedTimes renders the free-slot choices as a bullet list. The
// rendered values are the only admissible answers for the time slot while
// booking.
func FormatOfferedTimes(times []string) string {
	if len(times) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Offered time slots (user must pick one):\n")
	for _, t := range times {
		buf.WriteString("- ")
		buf.WriteString(t)
		buf.WriteString("\n")
	}
	return buf.String()
}

// FormatTurnContext renders the turn snapshot as markdown prompt sections.
func FormatTurnContext(tc *TurnContext) string {
	sections := []string{
		fmt.Sprintf("# Current date:\n%s", time.Now().Format(time.RFC3339)),
	}
	if tc.Intent != IntentUnset {
		sections = append(sections, fmt.Sprintf("# Conversation intent:\n%s", tc.Intent))
	}
	if tc.Phase != "" {
		sections = append(sections, fmt.Sprintf("# Dialogue phase:\n%s", tc.Phase))
	}
	if tc.Question != "" || tc.Answer != "" {
		sections = append(sections, "# Latest dialogue:")
		if tc.Question != "" {
			sections = append(sections, fmt.Sprintf("## Assistant question:\n%s", tc.Question))
		}
		if tc.Answer != "" {
			sections = append(sections, fmt.Sprintf("## User answer:\n%s", tc.Answer))
		}
	}
	if s := formatFilledSlotsSection(tc.Filled); s != "" {
		sections = append(sections, s)
	}
	if s := formatMissingSlotsSection(tc.Missing); s != "" {
		sections = append(sections, s)
	}
	if s := FormatOfferedTimes(tc.OfferedTimes); s != "" {
		sections = append(sections, s)
	}
	if tc.Rejection != nil {
		sections = append(sections, fmt.Sprintf("# Last value was rejected:\n%s", tc.Rejection.Error()))
	}
	return strings.Join(sections, "\n\n")
}
