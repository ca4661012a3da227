package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/bookingagent/structured"
	"github.com/tbxark/bookingagent/types"
)

const (
	generateReplyToolName        = "generate_reply"
	generateReplyToolDescription = "Generate the assistant's next conversational reply. Keep it short, natural and faithful to the stated facts."
)

const generateReplySystemPrompt = `You are the voice of an appointment assistant. Phrase the next reply to the user.

Guidelines:
- State exactly the facts in the turn snapshot; never invent dates, times or availability.
- When time slots are offered, enumerate them and ask the user to pick one of them.
- When a value was rejected, explain why briefly and re-ask the same question.
- When confirming, repeat date, time, purpose and name and ask for an explicit yes/no.
- Keep replies to one or two sentences.

Call the '%s' tool with the reply.`

type generateReplyOutput struct {
	Message string `json:"message" jsonschema:"required,description=The assistant's reply to the user"`
}

// ToolBasedGenerator phrases replies with a forced tool call. Wrap it with
// FailbackGenerator over a LocalGenerator so a model outage degrades to
// fixed wording instead of a broken turn.
type ToolBasedGenerator struct {
	chain *structured.Chain[*TurnView, generateReplyOutput]
}

func NewToolBasedGenerator(chatModel model.ToolCallingChatModel) (*ToolBasedGenerator, error) {
	chain, err := structured.NewChain[*TurnView, generateReplyOutput](
		chatModel,
		buildGenerateReplyPrompt,
		generateReplyToolName,
		generateReplyToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedGenerator{chain: chain}, nil
}

var _ Generator = (*ToolBasedGenerator)(nil)

func (g *ToolBasedGenerator) Reply(ctx context.Context, view *TurnView) (string, error) {
	result, err := g.chain.Invoke(ctx, view)
	if err != nil {
		slog.Error("generate reply model call failed", "err", err)
		return "", err
	}
	if result.Message == "" {
		return "", fmt.Errorf("empty message returned by %s", generateReplyToolName)
	}
	return result.Message, nil
}

func buildGenerateReplyPrompt(ctx context.Context, view *TurnView) ([]*schema.Message, error) {
	turn := types.FormatTurnContext(&types.TurnContext{
		Intent:       view.Intent,
		Phase:        view.Phase,
		Filled:       view.Filled,
		OfferedTimes: view.OfferedTimes,
		Question:     view.Question,
		Answer:       view.Answer,
		Rejection:    view.Rejection,
	})
	if view.AskSlot != "" {
		turn += fmt.Sprintf("\n\n# Ask the user for:\n%s", view.AskSlot.DisplayName())
	}
	if view.Offer {
		turn += "\n\n# Situation:\nThe checked slot is available; offer to book it."
	}
	if view.Outcome != OutcomeNone {
		turn += fmt.Sprintf("\n\n# Turn outcome:\n%s", view.Outcome)
	}
	if view.Failure != "" {
		turn += fmt.Sprintf("\n\n# Failure reason:\n%s", view.Failure)
	}
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(generateReplySystemPrompt, generateReplyToolName)),
		schema.UserMessage(turn),
	}, nil
}
