package intent

import (
	"context"

	"github.com/tbxark/bookingagent/types"
)

// Resolver classifies a free-form utterance into the conversation goal.
// Resolution is total: the result is always exactly one of Book, Check,
// Cancel or Ambiguous. The state machine re-prompts on Ambiguous; it never
// guesses a default intent.
type Resolver interface {
	Resolve(ctx context.Context, utterance string) (types.Intent, error)
}
