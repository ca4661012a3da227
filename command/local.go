package command

import (
	"context"
	"strings"
)

// KeywordParser matches the answer against fixed keyword lists. Exact-match
// on the normalized answer keeps it conservative: free-form sentences fall
// through to None and are handled as slot values or corrections instead.
type KeywordParser struct {
	AffirmKeywords  []string
	DenyKeywords    []string
	AbandonKeywords []string
	RetryKeywords   []string
}

func NewKeywordParser() *KeywordParser {
	return &KeywordParser{
		AffirmKeywords:  []string{"yes", "yes please", "yep", "yeah", "sure", "confirm", "correct", "that's right", "ok", "okay", "go ahead"},
		DenyKeywords:    []string{"no", "nope", "wrong", "that's wrong", "not quite", "no thanks", "no thank you"},
		AbandonKeywords: []string{"cancel", "quit", "exit", "stop", "never mind", "nevermind", "forget it", "abandon"},
		RetryKeywords:   []string{"retry", "try again", "again", "please retry"},
	}
}

var _ Parser = (*KeywordParser)(nil)

func (p *KeywordParser) ParseCommand(ctx context.Context, req Request) (Command, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Answer))
	normalized = strings.TrimRight(normalized, ".!")
	switch {
	case matches(normalized, p.AbandonKeywords):
		return Abandon, nil
	case matches(normalized, p.RetryKeywords):
		return Retry, nil
	case matches(normalized, p.AffirmKeywords):
		return Affirm, nil
	case matches(normalized, p.DenyKeywords):
		return Deny, nil
	default:
		return None, nil
	}
}

func matches(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if s == keyword {
			return true
		}
	}
	return false
}

// FailbackParser tries parsers in order until one succeeds.
type FailbackParser struct {
	parsers []Parser
}

func NewFailbackParser(parsers ...Parser) *FailbackParser {
	return &FailbackParser{parsers: parsers}
}

func (p *FailbackParser) ParseCommand(ctx context.Context, req Request) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, req)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	return None, lastErr
}
