package patch

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/bookingagent/structured"
	"github.com/tbxark/bookingagent/types"
)

const (
	generateOpsToolName        = "correct_slots"
	generateOpsToolDescription = "Produce RFC 6902 operations correcting the collected appointment details based on the user's reply."
)

const generateOpsSystemPrompt = `You are part of an appointment assistant. The assistant presented the collected appointment details for confirmation and the user replied with a correction.

Produce JSON patch operations against the slot document. Rules:
- Only the pointers /date, /time, /purpose and /name are allowed.
- Use "replace" for slots that have a value, "add" otherwise.
- Only emit operations for details the user actually corrected; emit none if the reply carries no correction.
- Values are the user's words verbatim; do not normalize dates or times yourself.

Call the '%s' tool with the result.`

type generateOpsOutput struct {
	Ops []Operation `json:"ops" jsonschema:"description=The correction operations,required"`
}

type ToolBasedGenerator struct {
	chain *structured.Chain[Request, generateOpsOutput]
}

func NewToolBasedGenerator(chatModel model.ToolCallingChatModel) (*ToolBasedGenerator, error) {
	chain, err := structured.NewChain[Request, generateOpsOutput](
		chatModel,
		buildGenerateOpsPrompt,
		generateOpsToolName,
		generateOpsToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedGenerator{chain: chain}, nil
}

var _ Generator = (*ToolBasedGenerator)(nil)

func (g *ToolBasedGenerator) GenerateOps(ctx context.Context, req Request) ([]Operation, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ValidateOps(result.Ops); err != nil {
		return nil, fmt.Errorf("model produced invalid ops: %w", err)
	}
	return result.Ops, nil
}

func buildGenerateOpsPrompt(ctx context.Context, req Request) ([]*schema.Message, error) {
	turn := types.FormatTurnContext(&types.TurnContext{
		Phase:    types.PhaseConfirming,
		Filled:   req.Filled,
		Question: req.Question,
		Answer:   req.Answer,
	})
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(generateOpsSystemPrompt, generateOpsToolName)),
		schema.UserMessage(turn),
	}, nil
}
