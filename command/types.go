package command

import "context"

// Command is a turn-level instruction recognized while the machine is in a
// confirmation or error state, as opposed to a slot value or a goal intent.
type Command string

const (
	Affirm  Command = "affirm"
	Deny    Command = "deny"
	Abandon Command = "abandon"
	Retry   Command = "retry"
	None    Command = "none"
)

// Request pairs the assistant's last question with the user's answer.
// Commands are judged against both: "yes" alone means nothing without the
// question it answers.
type Request struct {
	Question string
	Answer   string
}

type Parser interface {
	ParseCommand(ctx context.Context, req Request) (Command, error)
}
