package courierrepo

import (
	"context"
	"errors"
	"time"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.couriers(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdatePresence writes the online flag and the channel handle. Going online
// also counts as a sign of life.
func (r *GormCourierRepository) UpdatePresence(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	columns := map[string]any{
		"is_online": aggregate.IsOnline(),
		"handle":    aggregate.Handle(),
	}
	if aggregate.IsOnline() {
		columns["last_seen_at"] = r.now().UTC()
	}

	err := r.update(ctx, aggregate.ID(), columns)
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdatePosition writes the position columns in a single UPDATE.
func (r *GormCourierRepository) UpdatePosition(ctx context.Context, id kernel.UUID, position kernel.GeoPoint) error {
	if err := errors.Join(id.Validate(), position.Validate()); err != nil {
		return err
	}

	return r.update(ctx, id, map[string]any{
		"location_latitude":  position.Latitude(),
		"location_longitude": position.Longitude(),
		"last_seen_at":       r.now().UTC(),
	})
}

// DisconnectIdle takes offline every online courier not seen since cutoff.
// The position is kept; a swept courier comes back with its next identify.
func (r *GormCourierRepository) DisconnectIdle(ctx context.Context, cutoff time.Time) (int, error) {
	if cutoff.IsZero() {
		return 0, errs.NewValueIsRequiredError("cutoff")
	}

	result := r.couriers(ctx).
		Where("is_online = ? AND (last_seen_at IS NULL OR last_seen_at < ?)", true, cutoff.UTC()).
		Updates(map[string]any{
			"is_online": false,
			"handle":    "",
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func (r *GormCourierRepository) update(ctx context.Context, id kernel.UUID, columns map[string]any) error {
	result := r.couriers(ctx).Where("id = ?", id.Bytes()).Updates(columns)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return nil
}

func (r *GormCourierRepository) couriers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&CourierDTO{}).Where("role = ?", courier.Role)
}
