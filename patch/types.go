package patch

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/bookingagent/types"
)

// Operation is a single RFC 6902 step against the slot document
// {"date": ..., "time": ..., "purpose": ..., "name": ...}.
type Operation struct {
	Op    string `json:"op" jsonschema:"required,enum=add,enum=replace,description=The patch operation"`
	Path  string `json:"path" jsonschema:"required,description=JSON pointer to the slot being corrected"`
	Value string `json:"value" jsonschema:"required,description=The corrected raw value"`
}

// Request is the context a correction generator works from.
type Request struct {
	Question string
	Answer   string
	Filled   map[types.Slot]string
}

// Generator turns a correction utterance into patch operations. An empty
// result means the utterance carried no recognizable correction.
type Generator interface {
	GenerateOps(ctx context.Context, req Request) ([]Operation, error)
}

var allowedPointers = map[string]types.Slot{
	"/date":    types.SlotDate,
	"/time":    types.SlotTime,
	"/purpose": types.SlotPurpose,
	"/name":    types.SlotName,
}

// SlotForPointer maps a JSON pointer back to its slot name.
func SlotForPointer(path string) (types.Slot, bool) {
	slot, ok := allowedPointers[path]
	return slot, ok
}

// ValidateOps refuses any operation outside the four slot pointers and any
// op other than add/replace. A correction may change values but never the
// shape of the slot document.
func ValidateOps(ops []Operation) error {
	for i, op := range ops {
		if op.Op != "add" && op.Op != "replace" {
			return fmt.Errorf("operation %d: op %q not allowed", i, op.Op)
		}
		if _, ok := allowedPointers[op.Path]; !ok {
			return fmt.Errorf("operation %d: path %q is not a slot pointer", i, op.Path)
		}
		if strings.TrimSpace(op.Value) == "" {
			return fmt.Errorf("operation %d: empty value", i)
		}
	}
	return nil
}
