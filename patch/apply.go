package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/bookingagent/types"
)

// ApplyToSlots validates ops and applies them to a copy of the slot map.
// The returned values are raw user corrections: the caller re-validates
// every changed slot before trusting it.
func ApplyToSlots(filled map[types.Slot]string, ops []Operation) (map[types.Slot]string, error) {
	if err := ValidateOps(ops); err != nil {
		return nil, fmt.Errorf("patch validation failed: %w", err)
	}
	if len(ops) == 0 {
		return filled, nil
	}

	doc := make(map[string]string, len(filled))
	for slot, value := range filled {
		doc[string(slot)] = value
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal slot document: %w", err)
	}

	// "add" on a pointer that already exists fails under strict RFC 6902
	// decoding, so rewrite adds to replaces when the slot is present.
	normalized := make([]Operation, len(ops))
	copy(normalized, ops)
	for i, op := range normalized {
		slot, _ := SlotForPointer(op.Path)
		if _, exists := filled[slot]; exists && op.Op == "add" {
			normalized[i].Op = "replace"
		} else if !exists && op.Op == "replace" {
			normalized[i].Op = "add"
		}
	}
	opsJSON, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal patch operations: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(opsJSON)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	patchedJSON, err := decoded.Apply(docJSON)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}

	var patched map[string]string
	if err := json.Unmarshal(patchedJSON, &patched); err != nil {
		return nil, fmt.Errorf("unmarshal patched document: %w", err)
	}
	result := make(map[types.Slot]string, len(patched))
	for key, value := range patched {
		result[types.Slot(key)] = value
	}
	return result, nil
}

// ChangedSlots lists the slots touched by ops, in collection order.
func ChangedSlots(ops []Operation) []types.Slot {
	seen := map[types.Slot]bool{}
	var changed []types.Slot
	for _, op := range ops {
		slot, ok := SlotForPointer(op.Path)
		if !ok || seen[slot] {
			continue
		}
		seen[slot] = true
		changed = append(changed, slot)
	}
	return changed
}
