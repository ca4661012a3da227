package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/tbxark/bookingagent/types"
)

func TestKeywordResolver(t *testing.T) {
	resolver := NewKeywordResolver()
	tests := []struct {
		utterance string
		want      types.Intent
	}{
		{"I'd like to book an appointment", types.IntentBook},
		{"schedule me for tomorrow", types.IntentBook},
		{"can you check if 10am is free", types.IntentCheck},
		{"what's the availability on Friday", types.IntentCheck},
		{"please cancel my appointment", types.IntentCancel},
		{"cancel my booking", types.IntentCancel}, // cancel wins over book
		{"check whether my booking went through", types.IntentCheck},
		{"hello there", types.IntentAmbiguous},
		{"", types.IntentAmbiguous},
		{"   ", types.IntentAmbiguous},
	}
	for _, tt := range tests {
		got, err := resolver.Resolve(context.Background(), tt.utterance)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.utterance, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.utterance, got, tt.want)
		}
	}
}

type errorResolver struct{}

func (errorResolver) Resolve(ctx context.Context, utterance string) (types.Intent, error) {
	return types.IntentUnset, errors.New("model unreachable")
}

func TestFailbackResolver(t *testing.T) {
	resolver := NewFailbackResolver(errorResolver{}, NewKeywordResolver())
	got, err := resolver.Resolve(context.Background(), "book me in")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != types.IntentBook {
		t.Errorf("got %s, want %s", got, types.IntentBook)
	}
}

func TestFailbackResolverAllFail(t *testing.T) {
	resolver := NewFailbackResolver(errorResolver{})
	got, err := resolver.Resolve(context.Background(), "book me in")
	if err == nil {
		t.Fatal("expected error when every resolver fails")
	}
	if got != types.IntentAmbiguous {
		t.Errorf("got %s, want ambiguous as the safe answer", got)
	}
}
