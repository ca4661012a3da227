package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/bookingagent/types"
)

// LocalGenerator produces fixed English replies. It is the default and the
// failback behind the LLM generator, and what the deterministic tests
// assert against.
type LocalGenerator struct{}

var _ Generator = (*LocalGenerator)(nil)

func (g *LocalGenerator) Reply(ctx context.Context, view *TurnView) (string, error) {
	switch view.Phase {
	case types.PhaseIntentSelection:
		return g.intentPrompt(view), nil
	case types.PhaseCollecting:
		return g.collectingPrompt(view), nil
	case types.PhaseConfirming:
		return g.confirmingPrompt(view), nil
	case types.PhaseCompleted:
		return g.completedMessage(view), nil
	case types.PhaseError:
		return g.errorMessage(view), nil
	default:
		return "How can I help you with your appointment?", nil
	}
}

func (g *LocalGenerator) intentPrompt(view *TurnView) string {
	prompt := "I can book an appointment, check whether a slot is free, or cancel an existing appointment. What would you like to do?"
	if view.Greeting {
		return "Hello! " + prompt
	}
	return "Sorry, I didn't catch that. " + prompt
}

func (g *LocalGenerator) collectingPrompt(view *TurnView) string {
	var sb strings.Builder
	if view.Rejection != nil {
		sb.WriteString(g.rejectionMessage(view.Rejection))
		sb.WriteString(" ")
	}
	if view.Outcome == OutcomeNoFreeSlots {
		sb.WriteString(fmt.Sprintf("Sorry, there are no available slots on %s. ", view.Filled[types.SlotDate]))
	}
	switch view.AskSlot {
	case types.SlotDate:
		if view.Intent == types.IntentCancel {
			sb.WriteString("What is the date of the appointment to cancel?")
		} else {
			sb.WriteString("What date would you like?")
		}
	case types.SlotTime:
		if len(view.OfferedTimes) > 0 {
			sb.WriteString(fmt.Sprintf("The available slots on %s are: %s. Which time would you like?",
				view.Filled[types.SlotDate], strings.Join(view.OfferedTimes, ", ")))
		} else {
			sb.WriteString("What time would you like?")
		}
	case types.SlotPurpose:
		sb.WriteString("What is the purpose of your visit?")
	case types.SlotName:
		if view.Intent == types.IntentCancel {
			sb.WriteString("What name is the appointment under?")
		} else {
			sb.WriteString("What's your name?")
		}
	}
	return strings.TrimSpace(sb.String())
}

func (g *LocalGenerator) rejectionMessage(rej *types.Rejection) string {
	switch rej.Code {
	case types.RejectInvalidDate:
		return "That doesn't look like a real calendar date."
	case types.RejectInvalidTime:
		return "I couldn't understand that time."
	case types.RejectEmptyValue:
		return fmt.Sprintf("I need a %s to continue.", rej.Slot)
	case types.RejectSlotNotOffered:
		return "That time is not among the offered slots, please choose one from the list."
	default:
		return "I couldn't use that value."
	}
}

func (g *LocalGenerator) confirmingPrompt(view *TurnView) string {
	if view.Offer {
		return fmt.Sprintf("Good news: %s at %s is available. Would you like to book it?",
			view.Filled[types.SlotDate], view.Filled[types.SlotTime])
	}
	return fmt.Sprintf("Confirming your appointment on %s at %s for %s with name %s. Shall I book it? (yes/no)",
		view.Filled[types.SlotDate], view.Filled[types.SlotTime],
		view.Filled[types.SlotPurpose], view.Filled[types.SlotName])
}

func (g *LocalGenerator) completedMessage(view *TurnView) string {
	switch view.Outcome {
	case OutcomeSaved:
		return "The appointment has been saved. See you then!"
	case OutcomeSaveFailed:
		return "There was an error saving the appointment; the slot may have just been taken."
	case OutcomeCancelled:
		return "Your appointment has been cancelled."
	case OutcomeCancelNotFound:
		return "I could not find an appointment under that name and date."
	case OutcomeCheckBooked:
		return fmt.Sprintf("The slot on %s at %s is already booked.",
			view.Filled[types.SlotDate], view.Filled[types.SlotTime])
	case OutcomeOfferDeclined:
		return "Alright, I'll leave the slot as it is. Anything else, just ask."
	case OutcomeAbandoned:
		return "No problem, I've discarded that. Come back any time."
	default:
		return "All done."
	}
}

func (g *LocalGenerator) errorMessage(view *TurnView) string {
	if view.Outcome == OutcomeErrorFinal {
		return "Understood, I'll stop here. Sorry about the trouble."
	}
	return fmt.Sprintf("Sorry, something went wrong: %s. Shall I try again, or would you rather stop?", view.Failure)
}

// FailbackGenerator tries generators in order until one produces a reply.
type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) Reply(ctx context.Context, view *TurnView) (string, error) {
	var lastErr error
	for _, generator := range g.generators {
		message, err := generator.Reply(ctx, view)
		if err == nil {
			return message, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all dialogue generators failed: %w", lastErr)
}
