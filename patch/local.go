package patch

import (
	"context"
	"regexp"
	"strings"
)

var correctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:change|set|update|make)\s+(?:the\s+|my\s+)?(date|time|purpose|name)\s+to\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:the\s+|my\s+)?(date|time|purpose|name)\s+(?:is|should\s+be)\s+(.+)`),
}

// LocalGenerator extracts corrections like "change the time to 3 PM" with
// fixed patterns. Anything it cannot read yields no operations.
type LocalGenerator struct{}

var _ Generator = (*LocalGenerator)(nil)

func (g *LocalGenerator) GenerateOps(ctx context.Context, req Request) ([]Operation, error) {
	answer := strings.TrimSpace(req.Answer)
	for _, pattern := range correctionPatterns {
		match := pattern.FindStringSubmatch(answer)
		if match == nil {
			continue
		}
		slot := strings.ToLower(match[1])
		value := strings.TrimSpace(strings.TrimRight(match[2], ".!"))
		if value == "" {
			continue
		}
		return []Operation{{Op: "replace", Path: "/" + slot, Value: value}}, nil
	}
	return nil, nil
}

// FailbackGenerator tries generators in order until one succeeds.
type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) GenerateOps(ctx context.Context, req Request) ([]Operation, error) {
	var lastErr error
	for _, generator := range g.generators {
		ops, err := generator.GenerateOps(ctx, req)
		if err == nil {
			return ops, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
