package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type StationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

type stationModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	Name      string     `gorm:"column:name"`
	Address   string     `gorm:"column:address"`
	City      string     `gorm:"column:city"`
	Latitude  float64    `gorm:"column:latitude"`
	Longitude float64    `gorm:"column:longitude"`
	Capacity  int        `gorm:"column:capacity"`
	IsActive  bool       `gorm:"column:is_active"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

func (stationModel) TableName() string { return "stations" }

func toDomainStation(m stationModel) *domain.Station {
	return &domain.Station{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Capacity:  m.Capacity,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: m.DeletedAt,
	}
}

func toStationModel(s *domain.Station) stationModel {
	return stationModel{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Capacity:  s.Capacity,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
	}
}

func (r *StationRepository) Create(ctx context.Context, s *domain.Station) error {
	m := toStationModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainStation(m)
	return nil
}

// CreateWithSlots registers the station and one empty slot per unit of
// capacity in a single transaction, so a failed insert never leaves a
// station with a partial grid.
func (r *StationRepository) CreateWithSlots(ctx context.Context, s *domain.Station) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toStationModel(s)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for n := 1; n <= m.Capacity; n++ {
			slot := slotModel{
				StationID:  m.ID,
				SlotNumber: n,
				Status:     string(domain.SlotAvailable),
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		*s = *toDomainStation(m)
		return nil
	})
}

func (r *StationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	var m stationModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainStation(m), nil
}

func (r *StationRepository) ListActive(ctx context.Context) ([]domain.Station, error) {
	var ms []stationModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Station, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainStation(m))
	}
	return out, nil
}
