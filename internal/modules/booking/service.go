package booking

import (
	"context"
	"errors"
	"time"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/timeslot"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type Service struct {
	bookings  BookingRepository
	stations  StationRepository
	vehicles  VehicleRepository
	batteries BatteryFinder
	slots     SlotFinder
	locks     StationLocker
	events    EventSink
}

func NewService(
	bookings BookingRepository,
	stations StationRepository,
	vehicles VehicleRepository,
	batteries BatteryFinder,
	slots SlotFinder,
	locks StationLocker,
	events EventSink,
) *Service {
	return &Service{
		bookings:  bookings,
		stations:  stations,
		vehicles:  vehicles,
		batteries: batteries,
		slots:     slots,
		locks:     locks,
		events:    events,
	}
}

// CreateBooking inserts a pending booking for a grid cell. No physical
// slot is reserved yet; that happens at confirmation.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if !timeslot.ValidDate(req.BookingDate) || !timeslot.Valid(req.TimeSlot) {
		return nil, ErrValidation
	}

	station, err := s.stations.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !station.IsActive {
		return nil, ErrValidation
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if vehicle.UserID != req.UserID {
		return nil, ErrForbidden
	}
	if vehicle.BatteryTypeID != req.BatteryTypeID {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		StationID:     req.StationID,
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		BatteryTypeID: req.BatteryTypeID,
		BookingDate:   req.BookingDate,
		TimeSlot:      req.TimeSlot,
		Status:        domain.BookingPending,
	}

	// The count-then-insert exclusivity check inside Create is only
	// race-free when writers for the same station are serialized.
	err = s.locks.WithStation(req.StationID, func() error {
		return s.bookings.Create(ctx, b)
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	s.publish(b)
	return b, nil
}

// ConfirmBooking reserves a concrete slot holding an available battery
// of the requested type and moves the booking to confirmed. The
// reservation runs under the station lock so two confirmations cannot
// grab the same battery.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}

	err = s.locks.WithStation(b.StationID, func() error {
		battery, err := s.batteries.FindAvailableAtStation(ctx, b.StationID, b.BatteryTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoAvailableBattery
			}
			return err
		}

		slot, err := s.slots.GetByBattery(ctx, battery.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Battery not docked; stock is inconsistent, treat as
				// nothing reservable and leave the booking pending.
				return ErrNoAvailableBattery
			}
			return err
		}

		if err := s.bookings.Reserve(ctx, b.ID, slot.ID, battery.ID); err != nil {
			if errors.Is(err, repository.ErrStateChanged) {
				return ErrInvalidState
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookingConfirmed
	s.publish(b)
	return b, nil
}

// RejectBooking moves a pending booking to rejected with an optional
// free-text reason.
func (s *Service) RejectBooking(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}

	if err := s.bookings.Terminate(ctx, b.ID, domain.BookingPending, domain.BookingRejected, reason); err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	b.Status = domain.BookingRejected
	b.RejectReason = reason
	s.publish(b)
	return b, nil
}

// CancelBooking is the driver-initiated terminal transition. Allowed
// while the booking is pending or confirmed and the slot start has not
// passed; any reservation is invalidated with it.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidState
	}

	start, err := timeslot.StartTime(b.BookingDate, b.TimeSlot)
	if err != nil {
		return nil, ErrValidation
	}
	if !time.Now().UTC().Before(start) {
		return nil, ErrCancelWindowClosed
	}

	err = s.locks.WithStation(b.StationID, func() error {
		return s.bookings.Terminate(ctx, b.ID, b.Status, domain.BookingCancelled, "")
	})
	if err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	b.Status = domain.BookingCancelled
	s.publish(b)
	return b, nil
}

// GetAvailability builds the fixed grid for a station day and marks a
// cell unavailable iff a non-terminal booking occupies it. The status
// filter narrows which occupying bookings are reported, never which
// cells count as taken.
func (s *Service) GetAvailability(ctx context.Context, stationID int64, date string, statusFilter domain.BookingStatus) (*AvailabilityResponse, error) {
	if !timeslot.ValidDate(date) {
		return nil, ErrValidation
	}
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	active, err := s.bookings.ActiveByStationDate(ctx, stationID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]domain.Booking, len(active))
	for _, b := range active {
		taken[b.TimeSlot] = b
	}

	grid := timeslot.Grid()
	slots := make([]TimeSlot, 0, len(grid))
	for _, label := range grid {
		cell := TimeSlot{Label: label, IsAvailable: true}
		if b, ok := taken[label]; ok {
			cell.IsAvailable = false
			if statusFilter == "" || b.Status == statusFilter {
				id := b.ID
				cell.BookingID = &id
			}
		}
		slots = append(slots, cell)
	}

	return &AvailabilityResponse{
		StationID: stationID,
		Date:      date,
		Slots:     slots,
	}, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetStationBookings(ctx context.Context, stationID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.bookings.ListByStation(ctx, stationID, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) publish(b *domain.Booking) {
	if s.events != nil {
		s.events.PublishBookingEvent(b.StationID, b.ID, b.Status)
	}
}
