package command

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/bookingagent/structured"
)

const (
	parseCommandToolName        = "parse_command"
	parseCommandToolDescription = "Determine the user's reply to a confirmation or retry question: affirm, deny, abandon, retry, or none."
)

const parseCommandSystemPrompt = `You are part of an appointment assistant. The assistant asked the user a confirmation or retry question; decide what the user's answer means.

IMPORTANT: Always judge the answer against the question it replies to. Do not classify isolated words without context.

Choose exactly one:
- affirm: the user clearly agrees with what the question proposes (e.g. "yes", "go ahead", "book it").
- deny: the user clearly disagrees or says a detail is wrong, without abandoning the conversation.
- abandon: the user wants to stop the whole conversation (e.g. "never mind", "quit").
- retry: the user asks to try a failed operation again.
- none: the answer is new information, a correction with details, or unrelated chatter.

Call the '%s' tool with the result.`

type parseCommandOutput struct {
	Command Command `json:"command" jsonschema:"required,enum=affirm,enum=deny,enum=abandon,enum=retry,enum=none,description=The meaning of the user's reply"`
}

type ToolBasedParser struct {
	chain *structured.Chain[Request, parseCommandOutput]
}

func NewToolBasedParser(chatModel model.ToolCallingChatModel) (*ToolBasedParser, error) {
	chain, err := structured.NewChain[Request, parseCommandOutput](
		chatModel,
		buildParseCommandPrompt,
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedParser{chain: chain}, nil
}

var _ Parser = (*ToolBasedParser)(nil)

func (p *ToolBasedParser) ParseCommand(ctx context.Context, req Request) (Command, error) {
	result, err := p.chain.Invoke(ctx, req)
	if err != nil {
		return None, err
	}
	if result.Command == "" {
		return None, fmt.Errorf("empty command returned by %s", parseCommandToolName)
	}
	return result.Command, nil
}

func buildParseCommandPrompt(ctx context.Context, req Request) ([]*schema.Message, error) {
	user := fmt.Sprintf("## Assistant question:\n%s\n\n## User answer:\n%s", req.Question, req.Answer)
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(parseCommandSystemPrompt, parseCommandToolName)),
		schema.UserMessage(user),
	}, nil
}
