package swap

import (
	"context"
	"errors"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type Service struct {
	swaps     SwapRepository
	bookings  BookingRepository
	batteries BatteryRepository
	slots     SlotFinder
	vehicles  VehicleRepository
	locks     StationLocker
	events    EventSink
	quota     QuotaConsumer
}

func NewService(
	swaps SwapRepository,
	bookings BookingRepository,
	batteries BatteryRepository,
	slots SlotFinder,
	vehicles VehicleRepository,
	locks StationLocker,
	events EventSink,
	quota QuotaConsumer,
) *Service {
	return &Service{
		swaps:     swaps,
		bookings:  bookings,
		batteries: batteries,
		slots:     slots,
		vehicles:  vehicles,
		locks:     locks,
		events:    events,
		quota:     quota,
	}
}

// CreateSwapFromBooking executes the physical exchange for a confirmed
// booking. Validation happens up front; the mutation itself is one
// transaction under the station lock. Cancellation is honored up to the
// mutation boundary; once the transaction starts it runs to completion.
func (s *Service) CreateSwapFromBooking(ctx context.Context, req CreateSwapRequest) (*domain.BatterySwap, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidState
	}

	rsv, err := s.bookings.GetReservation(ctx, b.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	battery, err := s.batteries.GetByID(ctx, req.NewBatteryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if battery.StationID == nil || *battery.StationID != b.StationID {
		return nil, ErrInvalidState
	}
	// The booking's own reserved battery is the expected pick; any
	// other battery must be free stock.
	switch {
	case rsv != nil && rsv.BatteryID == battery.ID:
		if battery.Status != domain.BatteryReserved {
			return nil, ErrInvalidState
		}
	case battery.Status != domain.BatteryAvailable:
		return nil, ErrInvalidState
	}
	if battery.BatteryTypeID != b.BatteryTypeID {
		return nil, ErrInvalidState
	}

	slot, err := s.slots.GetByBattery(ctx, battery.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, b.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Debit the driver's plan allowance before touching any hardware
	// state. Drivers without a plan pay per swap and pass through.
	if s.quota != nil {
		if err := s.quota.ConsumeSwap(ctx, b.UserID); err != nil {
			return nil, err
		}
	}

	var result *domain.BatterySwap
	err = s.locks.WithStation(b.StationID, func() error {
		// Last point a cancellation can stop the swap.
		if err := ctx.Err(); err != nil {
			return err
		}

		ex := repository.SwapExecution{
			BookingID:    b.ID,
			UserID:       b.UserID,
			VehicleID:    b.VehicleID,
			StationID:    b.StationID,
			StaffID:      req.StaffID,
			OldBatteryID: vehicle.BatteryID,
			NewBatteryID: battery.ID,
			NewSlotID:    slot.ID,
		}
		if rsv != nil {
			id := rsv.BatteryID
			ex.ReservedBatteryID = &id
		}

		// Past the boundary: detach from caller cancellation so the
		// transaction commits or rolls back on its own terms.
		sw, err := s.swaps.ExecuteSwap(context.WithoutCancel(ctx), ex)
		if err != nil {
			if errors.Is(err, repository.ErrStateChanged) {
				return ErrConflict
			}
			return err
		}
		result = sw
		return nil
	})
	if err != nil {
		// The debited unit goes back when the exchange never happened.
		if s.quota != nil {
			_ = s.quota.RefundSwap(context.WithoutCancel(ctx), b.UserID)
		}
		return nil, err
	}

	if s.events != nil {
		s.events.PublishSwapEvent(result.StationID, result.ID, result.Status)
	}
	return result, nil
}

// UpdateSwapStatus drives the swap record through its own terminal
// states. The host booking is already completed and never regresses.
func (s *Service) UpdateSwapStatus(ctx context.Context, swapID int64, to domain.SwapStatus) (*domain.BatterySwap, error) {
	sw, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sw.Status.CanTransitionTo(to) {
		return nil, ErrInvalidState
	}

	ok, err := s.swaps.UpdateStatus(ctx, swapID, sw.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	sw.Status = to
	if s.events != nil {
		s.events.PublishSwapEvent(sw.StationID, sw.ID, sw.Status)
	}
	return sw, nil
}

// AttachPayment records the external payment reference on a swap. The
// payment itself is processed elsewhere.
func (s *Service) AttachPayment(ctx context.Context, swapID, paymentID int64) error {
	if _, err := s.swaps.GetByID(ctx, swapID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.swaps.SetPayment(ctx, swapID, paymentID)
}

func (s *Service) GetMySwaps(ctx context.Context, userID int64, limit, offset int) ([]domain.BatterySwap, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.swaps.ListByUser(ctx, userID, limit, offset)
}
