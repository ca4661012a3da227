package intent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/bookingagent/structured"
	"github.com/tbxark/bookingagent/types"
)

const (
	resolveIntentToolName        = "resolve_intent"
	resolveIntentToolDescription = "Classify the user's goal for the conversation: book, check, cancel, or ambiguous."
)

const resolveIntentSystemPrompt = `You are the intent classifier of an appointment assistant.

Classify the user's utterance into exactly one goal:
- book: the user wants to make a new appointment (e.g. "book", "schedule", "I need an appointment").
- check: the user wants to know whether a slot is booked or available (e.g. "check", "is Tuesday at 3 free?").
- cancel: the user wants to cancel an existing appointment (e.g. "cancel my appointment").
- ambiguous: the goal is not confidently recognizable. Never guess; small talk, greetings and unrelated chatter are ambiguous.

Call the '%s' tool with the result.`

type resolveIntentOutput struct {
	Intent types.Intent `json:"intent" jsonschema:"required,enum=book,enum=check,enum=cancel,enum=ambiguous,description=The user's conversation goal"`
}

// ToolBasedResolver classifies the goal with a forced tool call. Pair it
// with a KeywordResolver through FailbackResolver so resolution stays total
// on model failures.
type ToolBasedResolver struct {
	chain *structured.Chain[string, resolveIntentOutput]
}

func NewToolBasedResolver(chatModel model.ToolCallingChatModel) (*ToolBasedResolver, error) {
	chain, err := structured.NewChain[string, resolveIntentOutput](
		chatModel,
		buildResolveIntentPrompt,
		resolveIntentToolName,
		resolveIntentToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedResolver{chain: chain}, nil
}

var _ Resolver = (*ToolBasedResolver)(nil)

func (r *ToolBasedResolver) Resolve(ctx context.Context, utterance string) (types.Intent, error) {
	result, err := r.chain.Invoke(ctx, utterance)
	if err != nil {
		return types.IntentAmbiguous, err
	}
	switch result.Intent {
	case types.IntentBook, types.IntentCheck, types.IntentCancel, types.IntentAmbiguous:
		return result.Intent, nil
	default:
		return types.IntentAmbiguous, fmt.Errorf("unexpected intent returned by %s: %q", resolveIntentToolName, result.Intent)
	}
}

func buildResolveIntentPrompt(ctx context.Context, utterance string) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(resolveIntentSystemPrompt, resolveIntentToolName)),
		schema.UserMessage(utterance),
	}, nil
}
