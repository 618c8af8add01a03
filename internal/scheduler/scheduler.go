package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/station"
)

type StationLister interface {
	ListStations(ctx context.Context) ([]domain.Station, error)
}

type Reconciler interface {
	ResetStationBatterySlot(ctx context.Context, stationID int64) (*station.ResetResult, error)
}

type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the periodic maintenance pass: slot reconciliation
// for every active station plus subscription expiry. A failed pass is
// retried once after a short backoff instead of waiting a full
// interval; stations are reconciled one at a time, so a pass that
// overlaps live traffic just queues behind the per-station locks.
type Scheduler struct {
	stations   StationLister
	reconciler Reconciler
	subs       Expirer
	interval   time.Duration
	retry      time.Duration
	log        zerolog.Logger
}

func New(stations StationLister, reconciler Reconciler, subs Expirer, interval, retry time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		stations:   stations,
		reconciler: reconciler,
		subs:       subs,
		interval:   interval,
		retry:      retry,
		log:        log,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("retry", s.retry).
		Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("maintenance pass failed, retrying")
				select {
				case <-ctx.Done():
					s.log.Info().Msg("scheduler stopped")
					return
				case <-time.After(s.retry):
					if err := s.RunOnce(ctx); err != nil {
						s.log.Error().Err(err).Msg("maintenance retry failed, waiting for next interval")
					}
				}
			}
		}
	}
}

// RunOnce is a single maintenance pass. A station that fails to
// reconcile does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	expired, err := s.subs.ExpireOverdue(ctx, start)
	if err != nil {
		return err
	}

	stations, err := s.stations.ListStations(ctx)
	if err != nil {
		return err
	}

	var cleared, docked int
	var failed []error
	for _, st := range stations {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.reconciler.ResetStationBatterySlot(ctx, st.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("station_id", st.ID).Msg("station reconciliation failed")
			failed = append(failed, err)
			continue
		}
		cleared += res.Cleared
		docked += res.Docked
	}

	s.log.Info().
		Int64("subscriptions_expired", expired).
		Int("slots_cleared", cleared).
		Int("batteries_docked", docked).
		Int("stations_failed", len(failed)).
		Dur("took", time.Since(start)).
		Msg("maintenance pass completed")

	return errors.Join(failed...)
}
