package schedule

import (
	"context"
	"strings"
	"sync"

	"github.com/tbxark/bookingagent/types"
)

type memorySlot struct {
	booked  bool
	purpose string
	name    string
}

// MemoryBackend keeps the schedule in a map, for tests and offline runs.
type MemoryBackend struct {
	mu    sync.Mutex
	slots map[string]map[string]*memorySlot // date -> time -> slot
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: map[string]map[string]*memorySlot{}}
}

var _ Backend = (*MemoryBackend)(nil)

// AddSlot registers an unbooked slot.
func (b *MemoryBackend) AddSlot(date, timeOfDay string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slots[date] == nil {
		b.slots[date] = map[string]*memorySlot{}
	}
	b.slots[date][timeOfDay] = &memorySlot{}
}

func (b *MemoryBackend) FreeSlots(ctx context.Context, date string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var free []string
	for timeOfDay, slot := range b.slots[date] {
		if !slot.booked {
			free = append(free, timeOfDay)
		}
	}
	return free, nil
}

func (b *MemoryBackend) Save(ctx context.Context, appt types.Appointment) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot, ok := b.slots[appt.Date][appt.Time]
	if !ok || slot.booked {
		return false, nil
	}
	slot.booked = true
	slot.purpose = appt.Purpose
	slot.name = appt.Name
	return true, nil
}

func (b *MemoryBackend) SlotStatus(ctx context.Context, date, timeOfDay string) (types.SlotStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot, ok := b.slots[date][timeOfDay]
	if !ok || slot.booked {
		return types.SlotStatusBooked, nil
	}
	return types.SlotStatusAvailable, nil
}

func (b *MemoryBackend) Cancel(ctx context.Context, name, date string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	wanted := strings.ToLower(strings.TrimSpace(name))
	cancelled := false
	for _, slot := range b.slots[date] {
		if slot.booked && strings.ToLower(strings.TrimSpace(slot.name)) == wanted {
			slot.booked = false
			slot.purpose = ""
			slot.name = ""
			cancelled = true
		}
	}
	return cancelled, nil
}
