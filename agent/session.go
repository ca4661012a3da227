package agent

import (
	"fmt"
	"maps"
	"time"

	"github.com/bytedance/sonic"
	"github.com/tbxark/bookingagent/types"
)

// Session owns the state of one conversation. Sessions are isolated: nothing
// is shared between them, and a session is discarded (or reset) once a flow
// reaches a terminal phase.
type Session struct {
	Intent types.Intent          `json:"intent"`
	Phase  types.Phase           `json:"phase"`
	Slots  map[types.Slot]string `json:"slots"`

	// CurrentSlot is the collection cursor: the slot the user was last
	// asked for.
	CurrentSlot types.Slot `json:"current_slot,omitempty"`

	// OfferedTimes is the pending result of the latest get_free_slots call,
	// the only admissible values for the time slot while booking.
	OfferedTimes []string `json:"offered_times,omitempty"`

	// PendingTool is set while an external call is outstanding or has
	// failed and may be retried.
	PendingTool types.Tool `json:"pending_tool,omitempty"`

	// Offer marks that a checked slot was available and the user is being
	// offered to book it.
	Offer bool `json:"offer,omitempty"`

	Failure      string `json:"failure,omitempty"`
	LastQuestion string `json:"last_question,omitempty"`

	// Closed marks a terminal phase; the next turn starts a fresh
	// conversation.
	Closed bool `json:"closed,omitempty"`
}

func NewSession() *Session {
	return &Session{
		Phase: types.PhaseGreeting,
		Slots: map[types.Slot]string{},
	}
}

// Reset returns the session to its initial state for a new conversation.
func (s *Session) Reset() {
	*s = Session{
		Phase: types.PhaseGreeting,
		Slots: map[types.Slot]string{},
	}
}

// SlotsCopy snapshots the filled slots, so views handed to generators do not
// alias the live map.
func (s *Session) SlotsCopy() map[types.Slot]string {
	return maps.Clone(s.Slots)
}

const checkpointVersion = "1.0"

// Checkpoint is a versioned serialized snapshot of a session, for callers
// that persist conversations between turns.
type Checkpoint struct {
	Version   string    `json:"version"`
	Session   *Session  `json:"session"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Session) MarshalCheckpoint() ([]byte, error) {
	data, err := sonic.Marshal(Checkpoint{
		Version:   checkpointVersion,
		Session:   s,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkpoint: %w", err)
	}
	return data, nil
}

func RestoreCheckpoint(data []byte) (*Session, error) {
	var checkpoint Checkpoint
	if err := sonic.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if checkpoint.Version != checkpointVersion {
		return nil, fmt.Errorf("incompatible checkpoint version: %s (expected %s)", checkpoint.Version, checkpointVersion)
	}
	if checkpoint.Session == nil {
		return nil, fmt.Errorf("checkpoint carries no session")
	}
	if checkpoint.Session.Slots == nil {
		checkpoint.Session.Slots = map[types.Slot]string{}
	}
	return checkpoint.Session, nil
}
