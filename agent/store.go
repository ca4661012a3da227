package agent

import (
	"context"
)

type conversationIDContext struct{}

const defaultConversationID = "default"

// WithConversationID routes store reads and writes to one conversation.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversationIDContext{}, id)
}

// ConversationIDFromContext returns the routing key set on the context.
func ConversationIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(conversationIDContext{})
	if value == nil {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

func conversationIDOrDefault(ctx context.Context) string {
	id, ok := ConversationIDFromContext(ctx)
	if ok && id != "" {
		return id
	}
	return defaultConversationID
}

// store namespaces a Cache and routes by the context conversation key.
type store[S any] struct {
	core      Cache[S]
	namespace string
}

func (c store[S]) key(ctx context.Context) string {
	return c.namespace + ":" + conversationIDOrDefault(ctx)
}

func (c store[S]) Set(ctx context.Context, val S) error {
	return c.core.Set(ctx, c.key(ctx), val)
}

func (c store[S]) Get(ctx context.Context) (S, bool, error) {
	return c.core.Get(ctx, c.key(ctx))
}

func (c store[S]) Del(ctx context.Context) error {
	return c.core.Del(ctx, c.key(ctx))
}

// SessionStore keeps one Session per conversation key. Load returns a fresh
// session for unknown keys, so callers never see a nil session.
type SessionStore struct {
	store store[*Session]
}

func NewSessionStore(core Cache[*Session]) *SessionStore {
	return &SessionStore{store: store[*Session]{core: core, namespace: "booking:session"}}
}

func NewMemorySessionStore() *SessionStore {
	return NewSessionStore(NewMemoryCache[*Session]())
}

func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	session, ok, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || session == nil {
		return NewSession(), nil
	}
	return session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	return s.store.Set(ctx, session)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}
