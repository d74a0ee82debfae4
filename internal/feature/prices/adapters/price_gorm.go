package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/market"
)

type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

// NewPriceRepository returns the gorm-backed price history store.
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PricePointModel is one stored daily observation.
type PricePointModel struct {
	ID     uint      `gorm:"primaryKey"`
	Asset  string    `gorm:"size:16;not null;uniqueIndex:price_asset_time,priority:1"`
	Time   time.Time `gorm:"not null;uniqueIndex:price_asset_time,priority:2"`
	Price  float64   `gorm:"not null"`
	Volume *float64

	UpdatedAt time.Time
}

func (PricePointModel) TableName() string {
	return "price_points"
}

func toModel(p market.PricePoint) PricePointModel {
	return PricePointModel{
		Asset:  p.Asset,
		Time:   p.Time.UTC(),
		Price:  p.Price,
		Volume: p.Volume,
	}
}

func toEntity(m PricePointModel) market.PricePoint {
	return market.PricePoint{
		Asset:  m.Asset,
		Time:   m.Time.UTC(),
		Price:  m.Price,
		Volume: m.Volume,
	}
}

// UpsertBatch inserts points, overwriting price and volume on (asset, time) conflicts.
func (r *priceGorm) UpsertBatch(ctx context.Context, points []market.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	ms := make([]PricePointModel, 0, len(points))
	for _, p := range points {
		ms = append(ms, toModel(p))
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "volume", "updated_at"}),
	}).CreateInBatches(&ms, 500).Error
	if err != nil {
		return fmt.Errorf("upsert price points: %w", err)
	}
	return nil
}

// Find returns the points of asset at or after since, oldest first.
func (r *priceGorm) Find(ctx context.Context, asset string, since time.Time) ([]market.PricePoint, error) {
	var rows []PricePointModel
	q := r.db.WithContext(ctx).Where("asset = ?", asset)
	if !since.IsZero() {
		q = q.Where("time >= ?", since.UTC())
	}
	if err := q.Order("time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find price points %s: %w", asset, err)
	}
	out := make([]market.PricePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
