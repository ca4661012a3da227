package intent

import (
	"context"
	"strings"

	"github.com/tbxark/bookingagent/types"
)

// KeywordResolver recognizes the goal from characteristic words and phrases.
// Cancel is matched before check and book: "cancel my booking" mentions
// booking but is a cancellation.
type KeywordResolver struct {
	CancelKeywords []string
	CheckKeywords  []string
	BookKeywords   []string
}

func NewKeywordResolver() *KeywordResolver {
	return &KeywordResolver{
		CancelKeywords: []string{"cancel", "call off", "drop my appointment"},
		CheckKeywords:  []string{"check", "is it free", "is it available", "availability", "still free", "status"},
		BookKeywords:   []string{"book", "schedule", "reserve", "make an appointment", "set up an appointment"},
	}
}

var _ Resolver = (*KeywordResolver)(nil)

func (r *KeywordResolver) Resolve(ctx context.Context, utterance string) (types.Intent, error) {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if normalized == "" {
		return types.IntentAmbiguous, nil
	}
	if containsAny(normalized, r.CancelKeywords) {
		return types.IntentCancel, nil
	}
	if containsAny(normalized, r.CheckKeywords) {
		return types.IntentCheck, nil
	}
	if containsAny(normalized, r.BookKeywords) {
		return types.IntentBook, nil
	}
	return types.IntentAmbiguous, nil
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// FailbackResolver tries resolvers in order and returns the first answer
// that is not an error. A keyword resolver placed last makes the chain total
// even when the model is unreachable.
type FailbackResolver struct {
	resolvers []Resolver
}

func NewFailbackResolver(resolvers ...Resolver) *FailbackResolver {
	return &FailbackResolver{resolvers: resolvers}
}

func (r *FailbackResolver) Resolve(ctx context.Context, utterance string) (types.Intent, error) {
	var lastErr error
	for _, resolver := range r.resolvers {
		it, err := resolver.Resolve(ctx, utterance)
		if err == nil {
			return it, nil
		}
		lastErr = err
	}
	return types.IntentAmbiguous, lastErr
}
