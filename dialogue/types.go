package dialogue

import (
	"context"

	"github.com/tbxark/bookingagent/types"
)

// Outcome distinguishes the terminal and error situations a reply must
// describe. The zero value means the turn is mid-flow.
type Outcome string

const (
	OutcomeNone           Outcome = ""
	OutcomeSaved          Outcome = "saved"
	OutcomeSaveFailed     Outcome = "save_failed"
	OutcomeCancelled      Outcome = "cancelled"
	OutcomeCancelNotFound Outcome = "cancel_not_found"
	OutcomeCheckBooked    Outcome = "check_booked"
	OutcomeOfferDeclined  Outcome = "offer_declined"
	OutcomeNoFreeSlots    Outcome = "no_free_slots"
	OutcomeAbandoned      Outcome = "abandoned"
	OutcomeErrorRetryable Outcome = "error_retryable"
	OutcomeErrorFinal     Outcome = "error_final"
)

// TurnView is the state machine's snapshot of one finished turn, everything
// a generator needs to phrase the next thing said to the user. Exact wording
// is presentation: generators may phrase it freely but must surface the same
// facts.
type TurnView struct {
	Phase    types.Phase
	Intent   types.Intent
	Greeting bool

	// AskSlot is the slot the user is being prompted for while collecting.
	AskSlot      types.Slot
	Filled       map[types.Slot]string
	OfferedTimes []string
	Rejection    *types.Rejection

	// Offer is set when a checked slot turned out to be available and the
	// user is being offered to book it.
	Offer   bool
	Outcome Outcome
	Failure string

	// Question/Answer of the turn being replied to, for LLM context.
	Question string
	Answer   string
}

// Generator phrases the reply for a finished turn.
type Generator interface {
	Reply(ctx context.Context, view *TurnView) (string, error)
}
