package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
//
// Unique violations are recognized through gorm.ErrDuplicatedKey, so the
// connection must be opened with gorm.Config{TranslateError: true}.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new assignment. A second assignment for the same order
// violates the unique order_id index and is reported as stale state.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.DeliveryAssignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewStateIsStaleError("order", aggregate.OrderID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.DeliveryAssignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "assignment", id.String(), "id = ?", id.Bytes())
}

func (r *GormAssignmentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.DeliveryAssignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "assignment for order", orderID.String(), "order_id = ?", orderID.Bytes())
}

func (r *GormAssignmentRepository) first(
	ctx context.Context,
	param string,
	id string,
	query string,
	args ...any,
) (*assignment.DeliveryAssignment, error) {
	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

// BusyCourierIDs returns couriers holding an accepted assignment.
func (r *GormAssignmentRepository) BusyCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Distinct("assigned_to").
		Where("status = ? AND assigned_to IS NOT NULL", int(assignment.Accepted)).
		Pluck("assigned_to", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		courierID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, courierID)
	}
	return ids, nil
}

func (r *GormAssignmentRepository) IsCourierBusy(ctx context.Context, courierID kernel.UUID) (bool, error) {
	if err := courierID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("status = ? AND assigned_to = ?", int(assignment.Accepted), courierID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Accept stores an accepted aggregate if the row is still broadcasted to the
// accepting courier. A courier already holding another accepted assignment
// trips the partial unique index and gets assignment.ErrCourierIsBusy.
func (r *GormAssignmentRepository) Accept(ctx context.Context, aggregate *assignment.DeliveryAssignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	courierID := aggregate.AssignedTo()
	if aggregate.Status() != assignment.Accepted || courierID == nil {
		return errs.NewValueIsInvalidError("assignment is not accepted")
	}

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND status = ? AND ? = ANY(broadcasted_to)",
			aggregate.ID().Bytes(), int(assignment.Broadcasted), courierID.String()).
		Updates(map[string]any{
			"status":      int(assignment.Accepted),
			"assigned_to": courierID.Bytes(),
			"accepted_at": aggregate.AcceptedAt(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewTransitionIsInvalidErrorWithCause("assignment",
				assignment.Broadcasted.String(), assignment.Accepted.String(), assignment.ErrCourierIsBusy)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStateIsStaleError("assignment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAssignmentRepository) Transition(
	ctx context.Context,
	aggregate *assignment.DeliveryAssignment,
	from assignment.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().Bytes(), int(from)).
		Update("status", int(aggregate.Status()))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStateIsStaleError("assignment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAssignmentRepository) ListStaleBroadcasted(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*assignment.DeliveryAssignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", int(assignment.Broadcasted), cutoff.UTC()).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	result := make([]*assignment.DeliveryAssignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}
