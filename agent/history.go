package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Trimmer bounds a chat history before it is saved.
type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepSystemLastNTrimmer keeps all system messages and the last N others.
// N <= 0 keeps only system messages.
type KeepSystemLastNTrimmer struct {
	N int
}

func (t KeepSystemLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	var system, rest []*schema.Message
	for _, m := range history {
		if m == nil {
			continue
		}
		if m.Role == schema.System {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}
	if t.N > 0 && len(rest) > t.N {
		rest = rest[len(rest)-t.N:]
	} else if t.N <= 0 {
		rest = nil
	}
	return append(system, rest...)
}

// HistoryStore keeps the running chat transcript per conversation key, for
// feeding the LLM-backed components and the adk runner.
type HistoryStore struct {
	store   store[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(core Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{
		store:   store[[]*schema.Message]{core: core, namespace: "booking:history"},
		trimmer: trimmer,
	}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(NewMemoryCache[[]*schema.Message](), trimmer)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	history, ok, err := s.store.Get(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return history, nil
}

func (s *HistoryStore) Save(ctx context.Context, history []*schema.Message) error {
	if s.trimmer != nil {
		history = s.trimmer.Trim(history)
	}
	return s.store.Set(ctx, history)
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

// Append loads, appends msgs skipping nils and immediate duplicates, trims
// and saves, returning the saved history.
func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	history, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if len(history) > 0 {
			last := history[len(history)-1]
			if last != nil && last.Role == msg.Role && last.Content == msg.Content {
				continue
			}
		}
		history = append(history, msg)
	}
	if s.trimmer != nil {
		history = s.trimmer.Trim(history)
	}
	if err := s.store.Set(ctx, history); err != nil {
		return nil, err
	}
	return history, nil
}
