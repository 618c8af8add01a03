// Package timeslot defines the fixed hourly booking grid used by all stations.
package timeslot

import (
	"fmt"
	"time"
)

const (
	OpenHour  = 8  // 08:00 first slot
	CloseHour = 20 // 20:00 close, last slot starts 19:00
)

// Valid reports whether label is a slot on the grid ("08:00".."19:00").
func Valid(label string) bool {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return false
	}
	if t.Minute() != 0 {
		return false
	}
	h := t.Hour()
	return h >= OpenHour && h < CloseHour
}

// Grid returns every slot label of an operating day, in order.
func Grid() []string {
	out := make([]string, 0, CloseHour-OpenHour)
	for h := OpenHour; h < CloseHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
	}
	return out
}

// ValidDate reports whether date is a YYYY-MM-DD calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// StartTime resolves a (date, label) pair to its UTC start instant.
func StartTime(date, label string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
