package station

import (
	"context"
	"errors"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type Service struct {
	stations  StationRepository
	slots     SlotRepository
	batteries BatteryRepository
	locks     StationLocker
	events    EventSink
}

func NewService(stations StationRepository, slots SlotRepository, batteries BatteryRepository, locks StationLocker, events EventSink) *Service {
	return &Service{
		stations:  stations,
		slots:     slots,
		batteries: batteries,
		locks:     locks,
		events:    events,
	}
}

// CreateStation registers a station with one empty slot per unit of
// capacity. Station and grid are written in one transaction.
func (s *Service) CreateStation(ctx context.Context, req CreateStationRequest) (*domain.Station, error) {
	st := &domain.Station{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Capacity:  req.Capacity,
		IsActive:  true,
	}
	if err := s.stations.CreateWithSlots(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	st, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *Service) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.stations.ListActive(ctx)
}

func (s *Service) ListSlots(ctx context.Context, stationID int64) ([]domain.StationBatterySlot, error) {
	if _, err := s.GetStation(ctx, stationID); err != nil {
		return nil, err
	}
	return s.slots.GetByStation(ctx, stationID)
}

// OccupySlot docks a battery into a specific slot. Fails with
// ErrConflict when the slot is not free anymore.
func (s *Service) OccupySlot(ctx context.Context, slotID int64, req OccupySlotRequest) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	b, err := s.batteries.GetByID(ctx, req.BatteryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !b.Dockable() || b.VehicleID != nil {
		return ErrInvalidState
	}

	return s.locks.WithStation(slot.StationID, func() error {
		ok, err := s.slots.Occupy(ctx, slotID, b.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}
		if err := s.batteries.DockAtStation(ctx, b.ID, slot.StationID); err != nil {
			return err
		}
		s.publishSlot(slot.StationID, slotID, domain.SlotOccupied)
		return nil
	})
}

// ReleaseSlot frees an occupied slot, e.g. when a battery is pulled
// out for servicing. The battery's own record is updated separately.
func (s *Service) ReleaseSlot(ctx context.Context, slotID int64) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.locks.WithStation(slot.StationID, func() error {
		ok, err := s.slots.Release(ctx, slotID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}
		s.publishSlot(slot.StationID, slotID, domain.SlotAvailable)
		return nil
	})
}

// Summary returns the slot capacity and per-type battery inventory of
// one station.
func (s *Service) Summary(ctx context.Context, stationID int64) (*StationSummary, error) {
	if _, err := s.GetStation(ctx, stationID); err != nil {
		return nil, err
	}

	slots, err := s.slots.GetByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	counts, err := s.batteries.CountByTypeStatusAt(ctx, stationID)
	if err != nil {
		return nil, err
	}

	out := &StationSummary{StationID: stationID, TotalSlots: len(slots)}
	for _, sl := range slots {
		if sl.Status == domain.SlotAvailable {
			out.FreeSlots++
		}
	}
	for _, c := range counts {
		out.Inventory = append(out.Inventory, InventoryLine{
			BatteryTypeID: c.BatteryTypeID,
			Status:        c.Status,
			Count:         c.Count,
		})
	}
	return out, nil
}

// ResetStationBatterySlot reconciles the slot table of one station
// against where batteries actually are. Slots referencing a battery
// that left the station are cleared, docked batteries without a slot
// are seated into free ones. Running it twice in a row changes
// nothing the second time.
func (s *Service) ResetStationBatterySlot(ctx context.Context, stationID int64) (*ResetResult, error) {
	if _, err := s.GetStation(ctx, stationID); err != nil {
		return nil, err
	}

	res := &ResetResult{StationID: stationID}
	err := s.locks.WithStation(stationID, func() error {
		slots, err := s.slots.GetByStation(ctx, stationID)
		if err != nil {
			return err
		}
		docked, err := s.batteries.ListDockedAtStation(ctx, stationID)
		if err != nil {
			return err
		}

		present := make(map[int64]bool, len(docked))
		for _, b := range docked {
			present[b.ID] = true
		}

		seated := make(map[int64]bool, len(slots))
		// Untouched free slots are preferred over freshly cleared ones
		// when seating stray batteries.
		var free, freed []domain.StationBatterySlot
		for _, sl := range slots {
			switch {
			case sl.BatteryID != nil && present[*sl.BatteryID] && !seated[*sl.BatteryID]:
				seated[*sl.BatteryID] = true
				if sl.Status != domain.SlotOccupied {
					if err := s.slots.SetStatus(ctx, sl.ID, sl.BatteryID, domain.SlotOccupied); err != nil {
						return err
					}
					res.Docked++
					s.publishSlot(stationID, sl.ID, domain.SlotOccupied)
				}
			case sl.BatteryID != nil:
				// Battery is gone, duplicated, or no longer dockable.
				target := domain.SlotAvailable
				if sl.Status == domain.SlotMaintenance || sl.Status == domain.SlotDisabled {
					target = sl.Status
				}
				if err := s.slots.SetStatus(ctx, sl.ID, nil, target); err != nil {
					return err
				}
				res.Cleared++
				s.publishSlot(stationID, sl.ID, target)
				if target == domain.SlotAvailable {
					sl.BatteryID = nil
					sl.Status = domain.SlotAvailable
					freed = append(freed, sl)
				}
			case sl.Status == domain.SlotOccupied:
				if err := s.slots.SetStatus(ctx, sl.ID, nil, domain.SlotAvailable); err != nil {
					return err
				}
				res.Cleared++
				s.publishSlot(stationID, sl.ID, domain.SlotAvailable)
				sl.Status = domain.SlotAvailable
				freed = append(freed, sl)
			case sl.Status == domain.SlotAvailable:
				free = append(free, sl)
			}
		}
		free = append(free, freed...)

		for _, b := range docked {
			if seated[b.ID] {
				continue
			}
			if len(free) == 0 {
				break
			}
			slot := free[0]
			free = free[1:]
			id := b.ID
			if err := s.slots.SetStatus(ctx, slot.ID, &id, domain.SlotOccupied); err != nil {
				return err
			}
			res.Docked++
			s.publishSlot(stationID, slot.ID, domain.SlotOccupied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) publishSlot(stationID, slotID int64, status domain.SlotStatus) {
	if s.events == nil {
		return
	}
	s.events.PublishSlotEvent(stationID, slotID, status)
}
