// Package stationlock serializes mutating flows per station. Booking
// confirmation, swap execution and dispatch moves all funnel slot and
// battery writes for one station through the same lock, so two
// concurrent operations cannot interleave on shared slots.
package stationlock

import "sync"

type Locker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New() *Locker {
	return &Locker{locks: make(map[int64]*sync.Mutex)}
}

func (l *Locker) lock(stationID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[stationID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[stationID] = m
	}
	return m
}

// WithStation runs fn while holding the lock for stationID.
func (l *Locker) WithStation(stationID int64, fn func() error) error {
	m := l.lock(stationID)
	m.Lock()
	defer m.Unlock()
	return fn()
}

// WithStations locks several stations in ascending id order to avoid
// deadlock between two moves touching the same pair.
func (l *Locker) WithStations(a, b int64, fn func() error) error {
	if a == b {
		return l.WithStation(a, fn)
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	fm := l.lock(first)
	sm := l.lock(second)
	fm.Lock()
	defer fm.Unlock()
	sm.Lock()
	defer sm.Unlock()
	return fn()
}
