package command

import (
	"context"
	"errors"
	"testing"
)

func TestKeywordParser(t *testing.T) {
	parser := NewKeywordParser()
	tests := []struct {
		answer string
		want   Command
	}{
		{"yes", Affirm},
		{"Yes!", Affirm},
		{"  okay  ", Affirm},
		{"go ahead", Affirm},
		{"no", Deny},
		{"no thanks", Deny},
		{"That's wrong.", Deny},
		{"never mind", Abandon},
		{"stop", Abandon},
		{"cancel", Abandon}, // bare "cancel" at a prompt aborts the flow
		{"try again", Retry},
		{"retry", Retry},
		{"10:00", None},
		{"Jane Doe", None},
		{"yes I think the date should be the 25th", None}, // exact match only
		{"", None},
	}
	for _, tt := range tests {
		got, err := parser.ParseCommand(context.Background(), Request{Answer: tt.answer})
		if err != nil {
			t.Errorf("ParseCommand(%q): %v", tt.answer, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCommand(%q) = %s, want %s", tt.answer, got, tt.want)
		}
	}
}

type errorParser struct{}

func (errorParser) ParseCommand(ctx context.Context, req Request) (Command, error) {
	return None, errors.New("model unreachable")
}

func TestFailbackParser(t *testing.T) {
	parser := NewFailbackParser(errorParser{}, NewKeywordParser())
	got, err := parser.ParseCommand(context.Background(), Request{Answer: "yes"})
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if got != Affirm {
		t.Errorf("got %s, want %s", got, Affirm)
	}
}
