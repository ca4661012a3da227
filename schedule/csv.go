package schedule

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tbxark/bookingagent/types"
)

var csvHeader = []string{"date", "time", "is_booked", "purpose", "name"}

type scheduleRow struct {
	Date     string
	Time     string
	IsBooked bool
	Purpose  string
	Name     string
}

// CSVBackend stores the schedule in a flat CSV file with one row per
// bookable slot. Booking flips is_booked and fills purpose/name; cancelling
// flips it back and clears them, so the set of slots itself never changes.
type CSVBackend struct {
	mu   sync.Mutex
	path string
}

func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path}
}

var _ Backend = (*CSVBackend)(nil)

func (b *CSVBackend) FreeSlots(ctx context.Context, date string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, err := b.readAll()
	if err != nil {
		return nil, err
	}
	var free []string
	for _, row := range rows {
		if row.Date == date && !row.IsBooked {
			free = append(free, row.Time)
		}
	}
	return free, nil
}

func (b *CSVBackend) Save(ctx context.Context, appt types.Appointment) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, err := b.readAll()
	if err != nil {
		return false, err
	}
	updated := false
	for i, row := range rows {
		if row.Date == appt.Date && row.Time == appt.Time && !row.IsBooked {
			rows[i].IsBooked = true
			rows[i].Purpose = appt.Purpose
			rows[i].Name = appt.Name
			updated = true
		}
	}
	if !updated {
		return false, nil
	}
	return true, b.writeAll(rows)
}

func (b *CSVBackend) SlotStatus(ctx context.Context, date, timeOfDay string) (types.SlotStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, err := b.readAll()
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if row.Date == date && row.Time == timeOfDay {
			if row.IsBooked {
				return types.SlotStatusBooked, nil
			}
			return types.SlotStatusAvailable, nil
		}
	}
	// A slot the schedule does not list cannot be booked.
	return types.SlotStatusBooked, nil
}

func (b *CSVBackend) Cancel(ctx context.Context, name, date string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, err := b.readAll()
	if err != nil {
		return false, err
	}
	wanted := strings.ToLower(strings.TrimSpace(name))
	updated := false
	for i, row := range rows {
		if row.Date == date && row.IsBooked && strings.ToLower(strings.TrimSpace(row.Name)) == wanted {
			rows[i].IsBooked = false
			rows[i].Purpose = ""
			rows[i].Name = ""
			updated = true
		}
	}
	if !updated {
		return false, nil
	}
	return true, b.writeAll(rows)
}

func (b *CSVBackend) readAll() ([]scheduleRow, error) {
	file, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("open schedule file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := make([]scheduleRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(csvHeader) {
			continue
		}
		rows = append(rows, scheduleRow{
			Date:     strings.TrimSpace(record[0]),
			Time:     strings.TrimSpace(record[1]),
			IsBooked: strings.EqualFold(strings.TrimSpace(record[2]), "true"),
			Purpose:  record[3],
			Name:     record[4],
		})
	}
	return rows, nil
}

func (b *CSVBackend) writeAll(rows []scheduleRow) error {
	file, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("write schedule file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		booked := "False"
		if row.IsBooked {
			booked = "True"
		}
		record := []string{row.Date, row.Time, booked, row.Purpose, row.Name}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Seed writes a fresh schedule file with the given unbooked slots, skipping
// the write when the file already exists.
func Seed(path string, slots map[string][]string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	backend := &CSVBackend{path: path}
	var rows []scheduleRow
	for date, times := range slots {
		for _, t := range times {
			rows = append(rows, scheduleRow{Date: date, Time: t})
		}
	}
	return backend.writeAll(rows)
}
