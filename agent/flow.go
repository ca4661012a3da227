package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/bookingagent/command"
	"github.com/tbxark/bookingagent/dialogue"
	"github.com/tbxark/bookingagent/intent"
	"github.com/tbxark/bookingagent/patch"
	"github.com/tbxark/bookingagent/schedule"
	"github.com/tbxark/bookingagent/slots"
	"github.com/tbxark/bookingagent/types"
)

// Flow is the dialogue state machine. It advances a session exactly one step
// per user turn: resolve the intent, collect and validate one slot, confirm,
// or consume an external call result. All four scheduling operations go
// through the gate, never directly to the backend.
type Flow struct {
	gate        *schedule.Gate
	resolver    intent.Resolver
	commands    command.Parser
	corrections patch.Generator
	dialogue    dialogue.Generator
	now         func() time.Time
}

type Option func(*Flow)

func WithResolver(r intent.Resolver) Option {
	return func(f *Flow) { f.resolver = r }
}

func WithCommandParser(p command.Parser) Option {
	return func(f *Flow) { f.commands = p }
}

func WithCorrectionGenerator(g patch.Generator) Option {
	return func(f *Flow) { f.corrections = g }
}

func WithDialogueGenerator(g dialogue.Generator) Option {
	return func(f *Flow) { f.dialogue = g }
}

// WithClock fixes the time reference used to default omitted years. Tests
// inject a fixed clock; the default is the wall clock at validation time.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// NewFlow builds a flow with deterministic local components. Options swap in
// LLM-backed ones.
func NewFlow(backend schedule.Backend, opts ...Option) *Flow {
	f := &Flow{
		gate:        schedule.NewGate(backend),
		resolver:    intent.NewKeywordResolver(),
		commands:    command.NewKeywordParser(),
		corrections: &patch.LocalGenerator{},
		dialogue:    &dialogue.LocalGenerator{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewToolBasedFlow wires every understanding component to the chat model,
// each with its local counterpart as failback so a model outage degrades to
// keyword matching and fixed wording.
func NewToolBasedFlow(backend schedule.Backend, chatModel model.ToolCallingChatModel, opts ...Option) (*Flow, error) {
	resolver, err := intent.NewToolBasedResolver(chatModel)
	if err != nil {
		return nil, fmt.Errorf("create tool-based intent resolver: %w", err)
	}
	commandParser, err := command.NewToolBasedParser(chatModel)
	if err != nil {
		return nil, fmt.Errorf("create tool-based command parser: %w", err)
	}
	corrections, err := patch.NewToolBasedGenerator(chatModel)
	if err != nil {
		return nil, fmt.Errorf("create tool-based correction generator: %w", err)
	}
	generator, err := dialogue.NewToolBasedGenerator(chatModel)
	if err != nil {
		return nil, fmt.Errorf("create tool-based dialogue generator: %w", err)
	}
	base := []Option{
		WithResolver(intent.NewFailbackResolver(resolver, intent.NewKeywordResolver())),
		WithCommandParser(command.NewFailbackParser(commandParser, command.NewKeywordParser())),
		WithCorrectionGenerator(patch.NewFailbackGenerator(corrections, &patch.LocalGenerator{})),
		WithDialogueGenerator(dialogue.NewFailbackGenerator(generator, &dialogue.LocalGenerator{})),
	}
	return NewFlow(backend, append(base, opts...)...), nil
}

// Reply is the outcome of one turn.
type Reply struct {
	Message string
	Phase   types.Phase
	// Done marks a terminal phase: the session is finished and the next
	// turn starts a fresh conversation.
	Done bool
}

// Turn advances the session by one step for the given user input.
func (f *Flow) Turn(ctx context.Context, s *Session, input string) (*Reply, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	if s.Closed {
		s.Reset()
	}
	if s.Slots == nil {
		s.Slots = map[types.Slot]string{}
	}

	if s.Phase == types.PhaseGreeting {
		s.Phase = types.PhaseIntentSelection
		if strings.TrimSpace(input) == "" {
			return f.respond(ctx, s, input, &dialogue.TurnView{
				Phase:    types.PhaseIntentSelection,
				Greeting: true,
			})
		}
	}

	slog.Debug("turn", "phase", s.Phase, "intent", s.Intent, "slot", s.CurrentSlot)
	switch s.Phase {
	case types.PhaseIntentSelection:
		return f.turnIntentSelection(ctx, s, input)
	case types.PhaseCollecting:
		return f.turnCollecting(ctx, s, input)
	case types.PhaseConfirming:
		return f.turnConfirming(ctx, s, input)
	case types.PhaseError:
		return f.turnError(ctx, s, input)
	default:
		return nil, fmt.Errorf("turn received in unexpected phase %s", s.Phase)
	}
}

func (f *Flow) turnIntentSelection(ctx context.Context, s *Session, input string) (*Reply, error) {
	resolved, err := f.resolver.Resolve(ctx, input)
	if err != nil {
		slog.Warn("intent resolution failed, re-prompting", "err", err)
		resolved = types.IntentAmbiguous
	}
	if resolved == types.IntentAmbiguous || resolved == types.IntentUnset {
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseIntentSelection})
	}
	s.Intent = resolved
	s.Phase = types.PhaseCollecting
	first, ok := slots.NextMissing(s.Intent, s.Slots)
	if !ok {
		return nil, fmt.Errorf("intent %s requires no slots", s.Intent)
	}
	s.CurrentSlot = first
	return f.respond(ctx, s, input, &dialogue.TurnView{
		Phase:   types.PhaseCollecting,
		AskSlot: first,
	})
}

func (f *Flow) turnCollecting(ctx context.Context, s *Session, input string) (*Reply, error) {
	cmd, err := f.commands.ParseCommand(ctx, command.Request{Question: s.LastQuestion, Answer: input})
	if err != nil {
		slog.Warn("command parsing failed, treating input as value", "err", err)
		cmd = command.None
	}
	if cmd == command.Abandon {
		return f.close(ctx, s, input, dialogue.OutcomeAbandoned)
	}

	_, err = slots.Fill(s.Intent, s.Slots, s.CurrentSlot, input, f.fillContext(s))
	if err != nil {
		var rejection *types.Rejection
		if !errors.As(err, &rejection) {
			return nil, err
		}
		view := &dialogue.TurnView{
			Phase:     types.PhaseCollecting,
			AskSlot:   s.CurrentSlot,
			Rejection: rejection,
		}
		if s.CurrentSlot == types.SlotTime {
			view.OfferedTimes = s.OfferedTimes
		}
		return f.respond(ctx, s, input, view)
	}

	if s.Intent == types.IntentBook && s.CurrentSlot == types.SlotDate {
		return f.fetchFreeSlots(ctx, s, input)
	}

	next, ok := slots.NextMissing(s.Intent, s.Slots)
	if ok {
		s.CurrentSlot = next
		view := &dialogue.TurnView{Phase: types.PhaseCollecting, AskSlot: next}
		if next == types.SlotTime && s.Intent == types.IntentBook {
			view.OfferedTimes = s.OfferedTimes
		}
		return f.respond(ctx, s, input, view)
	}

	switch s.Intent {
	case types.IntentBook:
		s.Phase = types.PhaseConfirming
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming})
	case types.IntentCheck:
		return f.invokeCheck(ctx, s, input)
	case types.IntentCancel:
		return f.invokeCancel(ctx, s, input)
	default:
		return nil, fmt.Errorf("collection finished with unexpected intent %s", s.Intent)
	}
}

func (f *Flow) turnConfirming(ctx context.Context, s *Session, input string) (*Reply, error) {
	if s.Offer {
		return f.turnBookingOffer(ctx, s, input)
	}

	ops, err := f.corrections.GenerateOps(ctx, patch.Request{
		Question: s.LastQuestion,
		Answer:   input,
		Filled:   s.SlotsCopy(),
	})
	if err != nil {
		slog.Warn("correction generation failed", "err", err)
		ops = nil
	}
	if len(ops) > 0 {
		return f.applyCorrections(ctx, s, input, ops)
	}

	cmd, err := f.commands.ParseCommand(ctx, command.Request{Question: s.LastQuestion, Answer: input})
	if err != nil {
		slog.Warn("command parsing failed, re-presenting summary", "err", err)
		cmd = command.None
	}
	switch cmd {
	case command.Affirm:
		return f.invokeSave(ctx, s, input)
	case command.Abandon:
		return f.close(ctx, s, input, dialogue.OutcomeAbandoned)
	case command.Deny:
		// A denial without a readable correction re-opens the last slot.
		last := types.SlotName
		delete(s.Slots, last)
		s.Phase = types.PhaseCollecting
		s.CurrentSlot = last
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseCollecting, AskSlot: last})
	default:
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming})
	}
}

func (f *Flow) turnBookingOffer(ctx context.Context, s *Session, input string) (*Reply, error) {
	cmd, err := f.commands.ParseCommand(ctx, command.Request{Question: s.LastQuestion, Answer: input})
	if err != nil {
		slog.Warn("command parsing failed, re-presenting offer", "err", err)
		cmd = command.None
	}
	switch cmd {
	case command.Affirm:
		// The sanctioned check-to-book hand-off: keep the date, re-collect
		// the time from the offered set.
		s.Offer = false
		s.Intent = types.IntentBook
		return f.fetchFreeSlots(ctx, s, input)
	case command.Deny, command.Abandon:
		return f.close(ctx, s, input, dialogue.OutcomeOfferDeclined)
	default:
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming, Offer: true})
	}
}

func (f *Flow) applyCorrections(ctx context.Context, s *Session, input string, ops []patch.Operation) (*Reply, error) {
	patched, err := patch.ApplyToSlots(s.Slots, ops)
	if err != nil {
		slog.Warn("correction patch rejected", "err", err)
		return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming})
	}

	changed := patch.ChangedSlots(ops)
	dateChanged := false
	for _, slot := range changed {
		if slot == types.SlotDate {
			dateChanged = true
		}
	}
	for _, slot := range []types.Slot{types.SlotDate, types.SlotTime, types.SlotPurpose, types.SlotName} {
		if !containsSlot(changed, slot) {
			continue
		}
		if slot == types.SlotTime && dateChanged {
			// The offered set belongs to the old date; the time is
			// re-collected after the new fetch.
			continue
		}
		raw := patched[slot]
		delete(s.Slots, slot)
		if _, err := slots.Fill(s.Intent, s.Slots, slot, raw, f.fillContext(s)); err != nil {
			var rejection *types.Rejection
			if !errors.As(err, &rejection) {
				return nil, err
			}
			s.Phase = types.PhaseCollecting
			s.CurrentSlot = slot
			view := &dialogue.TurnView{
				Phase:     types.PhaseCollecting,
				AskSlot:   slot,
				Rejection: rejection,
			}
			if slot == types.SlotTime {
				view.OfferedTimes = s.OfferedTimes
			}
			return f.respond(ctx, s, input, view)
		}
	}
	if dateChanged {
		return f.fetchFreeSlots(ctx, s, input)
	}
	return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming})
}

func (f *Flow) turnError(ctx context.Context, s *Session, input string) (*Reply, error) {
	cmd, err := f.commands.ParseCommand(ctx, command.Request{Question: s.LastQuestion, Answer: input})
	if err != nil {
		slog.Warn("command parsing failed, re-offering retry", "err", err)
		cmd = command.None
	}
	switch cmd {
	case command.Retry, command.Affirm:
		return f.retryPendingTool(ctx, s, input)
	case command.Deny, command.Abandon:
		s.Closed = true
		return f.respond(ctx, s, input, &dialogue.TurnView{
			Phase:   types.PhaseError,
			Outcome: dialogue.OutcomeErrorFinal,
		})
	default:
		return f.respond(ctx, s, input, &dialogue.TurnView{
			Phase:   types.PhaseError,
			Outcome: dialogue.OutcomeErrorRetryable,
			Failure: s.Failure,
		})
	}
}

// retryPendingTool re-runs the failed external call with user consent; the
// machine never retries on its own.
func (f *Flow) retryPendingTool(ctx context.Context, s *Session, input string) (*Reply, error) {
	switch s.PendingTool {
	case types.ToolGetFreeSlots:
		return f.fetchFreeSlots(ctx, s, input)
	case types.ToolCheckSlotStatus:
		return f.invokeCheck(ctx, s, input)
	case types.ToolCancelAppointment:
		return f.invokeCancel(ctx, s, input)
	case types.ToolAppointmentSaved:
		return f.invokeSave(ctx, s, input)
	default:
		return nil, fmt.Errorf("retry requested but no tool is pending")
	}
}

// fetchFreeSlots is the mandatory interposition between collecting the date
// and collecting the time while booking: the offered set is fetched and
// becomes the only admissible time choices.
func (f *Flow) fetchFreeSlots(ctx context.Context, s *Session, input string) (*Reply, error) {
	s.Phase = types.PhaseAwaitingTool
	s.PendingTool = types.ToolGetFreeSlots
	times, err := f.gate.FreeSlots(ctx, s.Slots)
	if err != nil {
		return f.fail(ctx, s, input, err)
	}
	s.PendingTool = ""
	sort.Strings(times)

	if len(times) == 0 {
		view := &dialogue.TurnView{
			Phase:   types.PhaseCollecting,
			AskSlot: types.SlotDate,
			Outcome: dialogue.OutcomeNoFreeSlots,
			Filled:  s.SlotsCopy(),
		}
		delete(s.Slots, types.SlotDate)
		s.OfferedTimes = nil
		s.Phase = types.PhaseCollecting
		s.CurrentSlot = types.SlotDate
		return f.respond(ctx, s, input, view)
	}

	s.OfferedTimes = times
	delete(s.Slots, types.SlotTime)
	s.Phase = types.PhaseCollecting
	s.CurrentSlot = types.SlotTime
	return f.respond(ctx, s, input, &dialogue.TurnView{
		Phase:        types.PhaseCollecting,
		AskSlot:      types.SlotTime,
		OfferedTimes: times,
	})
}

func (f *Flow) invokeCheck(ctx context.Context, s *Session, input string) (*Reply, error) {
	s.Phase = types.PhaseAwaitingTool
	s.PendingTool = types.ToolCheckSlotStatus
	status, err := f.gate.SlotStatus(ctx, s.Slots)
	if err != nil {
		return f.fail(ctx, s, input, err)
	}
	s.PendingTool = ""
	if status == types.SlotStatusBooked {
		return f.close(ctx, s, input, dialogue.OutcomeCheckBooked)
	}
	s.Offer = true
	s.Phase = types.PhaseConfirming
	return f.respond(ctx, s, input, &dialogue.TurnView{Phase: types.PhaseConfirming, Offer: true})
}

func (f *Flow) invokeCancel(ctx context.Context, s *Session, input string) (*Reply, error) {
	s.Phase = types.PhaseAwaitingTool
	s.PendingTool = types.ToolCancelAppointment
	found, err := f.gate.Cancel(ctx, s.Slots)
	if err != nil {
		return f.fail(ctx, s, input, err)
	}
	s.PendingTool = ""
	if found {
		return f.close(ctx, s, input, dialogue.OutcomeCancelled)
	}
	return f.close(ctx, s, input, dialogue.OutcomeCancelNotFound)
}

func (f *Flow) invokeSave(ctx context.Context, s *Session, input string) (*Reply, error) {
	s.Phase = types.PhaseAwaitingTool
	s.PendingTool = types.ToolAppointmentSaved
	saved, err := f.gate.Save(ctx, s.Slots)
	if err != nil {
		return f.fail(ctx, s, input, err)
	}
	s.PendingTool = ""
	if saved {
		return f.close(ctx, s, input, dialogue.OutcomeSaved)
	}
	return f.close(ctx, s, input, dialogue.OutcomeSaveFailed)
}

func (f *Flow) fail(ctx context.Context, s *Session, input string, cause error) (*Reply, error) {
	slog.Error("external call failed", "tool", s.PendingTool, "err", cause)
	s.Phase = types.PhaseError
	s.Failure = cause.Error()
	return f.respond(ctx, s, input, &dialogue.TurnView{
		Phase:   types.PhaseError,
		Outcome: dialogue.OutcomeErrorRetryable,
		Failure: s.Failure,
	})
}

func (f *Flow) close(ctx context.Context, s *Session, input string, outcome dialogue.Outcome) (*Reply, error) {
	s.Phase = types.PhaseCompleted
	s.Closed = true
	return f.respond(ctx, s, input, &dialogue.TurnView{
		Phase:   types.PhaseCompleted,
		Outcome: outcome,
	})
}

func (f *Flow) respond(ctx context.Context, s *Session, input string, view *dialogue.TurnView) (*Reply, error) {
	view.Intent = s.Intent
	view.Question = s.LastQuestion
	view.Answer = input
	if view.Filled == nil {
		view.Filled = s.SlotsCopy()
	}
	message, err := f.dialogue.Reply(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	s.LastQuestion = message
	return &Reply{
		Message: message,
		Phase:   s.Phase,
		Done:    s.Closed,
	}, nil
}

func (f *Flow) fillContext(s *Session) slots.FillContext {
	return slots.FillContext{
		Validate:     slots.Context{CurrentYear: f.now().Year()},
		OfferedTimes: s.OfferedTimes,
	}
}

func containsSlot(list []types.Slot, slot types.Slot) bool {
	for _, s := range list {
		if s == slot {
			return true
		}
	}
	return false
}
