package stationlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithStation_SerializesSameStation(t *testing.T) {
	l := New()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithStation(1, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, workers, counter)
}

func TestWithStations_NoDeadlockOnOpposedOrder(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = l.WithStations(1, 2, func() error { return nil })
		}()
		go func() {
			defer wg.Done()
			_ = l.WithStations(2, 1, func() error { return nil })
		}()
	}
	wg.Wait()
}

func TestWithStations_SameStationLocksOnce(t *testing.T) {
	l := New()
	called := false
	err := l.WithStations(3, 3, func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}
