package dispatch

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

// DistanceFunc scores how far apart two stations are. The planner only
// compares values, so any consistent metric works.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// Haversine is the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

type Service struct {
	stations  StationRepository
	batteries BatteryRepository
	slots     SlotRepository
	locks     StationLocker
	store     *PlanStore
	threshold int
	distance  DistanceFunc
	log       zerolog.Logger
}

func NewService(stations StationRepository, batteries BatteryRepository, slots SlotRepository, locks StationLocker, store *PlanStore, threshold int, log zerolog.Logger) *Service {
	return &Service{
		stations:  stations,
		batteries: batteries,
		slots:     slots,
		locks:     locks,
		store:     store,
		threshold: threshold,
		distance:  Haversine,
		log:       log,
	}
}

// SetDistance swaps the metric used to pick source stations.
func (s *Service) SetDistance(fn DistanceFunc) {
	if fn != nil {
		s.distance = fn
	}
}

// PlanRebalance proposes moves that lift every under-threshold station
// using batteries from over-threshold ones. Worst deficits are served
// first, ties go to the lower station id, and no move ships more than
// the source can spare or the destination can physically dock.
func (s *Service) PlanRebalance(ctx context.Context) (*DispatchPlan, error) {
	stations, err := s.stations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.batteries.CountByStationTypeStatus(ctx)
	if err != nil {
		return nil, err
	}
	freeRows, err := s.slots.CountFreeByStation(ctx)
	if err != nil {
		return nil, err
	}

	geo := make(map[int64]domain.Station, len(stations))
	for _, st := range stations {
		geo[st.ID] = st
	}
	free := make(map[int64]int, len(freeRows))
	for _, row := range freeRows {
		free[row.StationID] = row.Free
	}

	// Available counts per battery type, active stations only.
	avail := make(map[int64]map[int64]int)
	for _, c := range counts {
		if c.Status != string(domain.BatteryAvailable) {
			continue
		}
		if _, ok := geo[c.StationID]; !ok {
			continue
		}
		if avail[c.BatteryTypeID] == nil {
			avail[c.BatteryTypeID] = make(map[int64]int)
		}
		avail[c.BatteryTypeID][c.StationID] = c.Count
	}

	typeIDs := make([]int64, 0, len(avail))
	for t := range avail {
		typeIDs = append(typeIDs, t)
	}
	sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

	plan := &DispatchPlan{
		ID:        uuid.New(),
		Threshold: s.threshold,
		CreatedAt: time.Now(),
	}

	for _, typeID := range typeIDs {
		byStation := avail[typeID]
		// Per-source queue of transportable units, filled on first use
		// so two moves from the same station never pick the same one.
		queues := make(map[int64][]int64)

		var deficits, surpluses []stationLoad
		for _, st := range stations {
			n := byStation[st.ID]
			load := stationLoad{
				StationID: st.ID,
				Available: n,
				FreeSlots: free[st.ID],
				Latitude:  st.Latitude,
				Longitude: st.Longitude,
			}
			switch {
			case n < s.threshold:
				deficits = append(deficits, load)
			case n > s.threshold:
				surpluses = append(surpluses, load)
			}
		}
		if len(deficits) == 0 || len(surpluses) == 0 {
			continue
		}

		sort.Slice(deficits, func(i, j int) bool {
			di := s.threshold - deficits[i].Available
			dj := s.threshold - deficits[j].Available
			if di != dj {
				return di > dj
			}
			return deficits[i].StationID < deficits[j].StationID
		})

		for di := range deficits {
			dst := &deficits[di]
			need := s.threshold - dst.Available

			for need > 0 && dst.FreeSlots > 0 {
				src := s.pickSource(surpluses, dst)
				if src == nil {
					break
				}
				spare := src.Available - s.threshold
				count := min(need, spare, dst.FreeSlots)

				if _, ok := queues[src.StationID]; !ok {
					ids, err := s.listTransportable(ctx, src.StationID, typeID, src.Available)
					if err != nil {
						return nil, err
					}
					queues[src.StationID] = ids
				}
				q := queues[src.StationID]
				if len(q) < count {
					count = len(q)
				}
				if count == 0 {
					src.Available = s.threshold // exhausted, skip next round
					continue
				}
				ids := q[:count]
				queues[src.StationID] = q[count:]

				plan.Moves = append(plan.Moves, Move{
					ID:            uuid.New(),
					FromStationID: src.StationID,
					ToStationID:   dst.StationID,
					BatteryTypeID: typeID,
					Count:         count,
					BatteryIDs:    ids,
				})
				src.Available -= count
				src.FreeSlots += count
				dst.Available += count
				dst.FreeSlots -= count
				need -= count
			}
		}
	}

	if len(plan.Moves) == 0 {
		return nil, ErrNoMoves
	}

	s.store.Put(plan)
	s.log.Info().
		Str("plan_id", plan.ID.String()).
		Int("moves", len(plan.Moves)).
		Int("threshold", s.threshold).
		Msg("rebalance plan created")
	return plan, nil
}

// pickSource chooses the closest over-threshold station; on equal
// distance the bigger surplus wins, then the lower id.
func (s *Service) pickSource(surpluses []stationLoad, dst *stationLoad) *stationLoad {
	var best *stationLoad
	var bestDist float64
	for i := range surpluses {
		src := &surpluses[i]
		if src.Available <= s.threshold || src.StationID == dst.StationID {
			continue
		}
		d := s.distance(src.Latitude, src.Longitude, dst.Latitude, dst.Longitude)
		switch {
		case best == nil:
		case d < bestDist:
		case d == bestDist && src.Available > best.Available:
		case d == bestDist && src.Available == best.Available && src.StationID < best.StationID:
		default:
			continue
		}
		best = src
		bestDist = d
	}
	return best
}

// listTransportable returns the emptiest available units first, so
// full batteries stay on the rack for swaps.
func (s *Service) listTransportable(ctx context.Context, stationID, typeID int64, limit int) ([]int64, error) {
	bats, err := s.batteries.ListAvailableAtStation(ctx, stationID, typeID, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(bats))
	for _, b := range bats {
		ids = append(ids, b.ID)
	}
	return ids, nil
}
