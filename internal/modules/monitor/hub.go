package monitor

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

// Event is one state change pushed to station monitors.
type Event struct {
	Kind      string    `json:"kind"` // booking, swap, slot
	StationID int64     `json:"station_id"`
	EntityID  int64     `json:"entity_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

// Hub fans station events out to every dashboard watching that
// station. A single loop owns all writes, so connections never see
// concurrent writers. Publishing never blocks the caller; when the
// event queue is full the event is dropped, monitors are advisory.
type Hub struct {
	mutex    sync.RWMutex
	watchers map[int64]map[*websocket.Conn]bool
	events   chan Event
	done     chan struct{}
}

func NewHub() *Hub {
	h := &Hub{
		watchers: make(map[int64]map[*websocket.Conn]bool),
		events:   make(chan Event, 256),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case ev := <-h.events:
			h.fanOut(ev)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Register(stationID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.watchers[stationID] == nil {
		h.watchers[stationID] = make(map[*websocket.Conn]bool)
	}
	h.watchers[stationID][conn] = true
}

func (h *Hub) Unregister(stationID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.watchers[stationID]; exists {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.watchers, stationID)
		}
	}
}

func (h *Hub) WatcherCount(stationID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.watchers[stationID])
}

func (h *Hub) fanOut(ev Event) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.watchers[ev.StationID]))
	for conn := range h.watchers[ev.StationID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.Unregister(ev.StationID, conn)
		}
	}
}

func (h *Hub) publish(ev Event) {
	select {
	case h.events <- ev:
	default:
	}
}

func (h *Hub) PublishBookingEvent(stationID, bookingID int64, status domain.BookingStatus) {
	h.publish(Event{
		Kind:      "booking",
		StationID: stationID,
		EntityID:  bookingID,
		Status:    string(status),
		At:        time.Now(),
	})
}

func (h *Hub) PublishSwapEvent(stationID, swapID int64, status domain.SwapStatus) {
	h.publish(Event{
		Kind:      "swap",
		StationID: stationID,
		EntityID:  swapID,
		Status:    string(status),
		At:        time.Now(),
	})
}

func (h *Hub) PublishSlotEvent(stationID, slotID int64, status domain.SlotStatus) {
	h.publish(Event{
		Kind:      "slot",
		StationID: stationID,
		EntityID:  slotID,
		Status:    string(status),
		At:        time.Now(),
	})
}

func (h *Hub) Close() {
	close(h.done)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for stationID, conns := range h.watchers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.watchers, stationID)
	}
}
