package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*Agent)(nil)

// Agent adapts a Flow to the eino adk interface. It loads the session for
// the context's conversation key, advances it one turn with the latest user
// message, and persists or discards it depending on the outcome.
type Agent struct {
	name        string
	description string
	flow        *Flow
	sessions    *SessionStore
}

func NewAgent(name, description string, flow *Flow, sessions *SessionStore) *Agent {
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
		sessions:    sessions,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			if e := recover(); e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		session, err := a.sessions.Load(ctx)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("load session failed: %w", err),
			})
			return
		}
		reply, err := a.flow.Turn(ctx, session, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow turn failed: %w", err),
			})
			return
		}
		if reply.Done {
			err = a.sessions.Clear(ctx)
		} else {
			err = a.sessions.Save(ctx, session)
		}
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("persist session failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: reply.Message,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}
