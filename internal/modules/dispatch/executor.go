package dispatch

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

// ExecuteMoves runs a previously planned set of moves. Each battery
// transfer is its own guarded transaction, so a unit that was swapped
// out or relocated since planning is skipped instead of failing the
// whole plan. A plan runs at most once; re-executing or executing an
// expired plan fails with ErrStalePlan.
func (s *Service) ExecuteMoves(ctx context.Context, planID uuid.UUID) ([]MoveResult, error) {
	plan, found, expired := s.store.Take(planID)
	if !found {
		return nil, ErrNotFound
	}
	if expired {
		return nil, ErrStalePlan
	}

	results := make([]MoveResult, 0, len(plan.Moves))
	total := 0
	for _, mv := range plan.Moves {
		res := MoveResult{MoveID: mv.ID, Requested: mv.Count}

		err := s.locks.WithStations(mv.FromStationID, mv.ToStationID, func() error {
			for _, batteryID := range mv.BatteryIDs {
				err := s.slots.TransferBattery(ctx, batteryID, mv.FromStationID, mv.ToStationID)
				if errors.Is(err, repository.ErrStateChanged) {
					continue
				}
				if err != nil {
					return err
				}
				res.Moved++
			}
			return nil
		})
		if err != nil {
			res.Error = err.Error()
		} else if res.Moved < res.Requested {
			res.Error = "some batteries were no longer movable"
		}

		s.log.Info().
			Str("plan_id", plan.ID.String()).
			Str("move_id", mv.ID.String()).
			Int64("from", mv.FromStationID).
			Int64("to", mv.ToStationID).
			Int("requested", res.Requested).
			Int("moved", res.Moved).
			Msg("dispatch move executed")

		total += res.Moved
		results = append(results, res)
	}

	if total == 0 {
		return results, ErrStalePlan
	}
	return results, nil
}
