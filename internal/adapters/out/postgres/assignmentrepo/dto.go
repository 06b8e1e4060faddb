// Package assignmentrepo persists delivery assignments. State changes are
// conditional UPDATEs so that concurrent writers resolve in the database.
package assignmentrepo

import (
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AssignmentDTO is a delivery_assignments row.
//
// order_id is unique, so an order has at most one assignment. The partial
// unique index on assigned_to keeps a courier on at most one accepted
// assignment even when two acceptances for different orders race.
type AssignmentDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	BroadcastedTo pq.StringArray `gorm:"type:text[];not null"`
	Status        int            `gorm:"not null;index:idx_assignments_status_created,priority:1"`
	AssignedTo    *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_assignments_active_courier,where:status = 2"`
	CreatedAt     time.Time      `gorm:"not null;index:idx_assignments_status_created,priority:2"`
	AcceptedAt    *time.Time
}

func (AssignmentDTO) TableName() string {
	return "delivery_assignments"
}

func fromDomain(aggregate *assignment.DeliveryAssignment) AssignmentDTO {
	candidates := aggregate.BroadcastedTo()
	broadcastedTo := make(pq.StringArray, 0, len(candidates))
	for _, id := range candidates {
		broadcastedTo = append(broadcastedTo, id.String())
	}

	var assignedTo *uuid.UUID
	if id := aggregate.AssignedTo(); id != nil {
		raw := id.Bytes()
		assignedTo = &raw
	}

	return AssignmentDTO{
		ID:            aggregate.ID().Bytes(),
		OrderID:       aggregate.OrderID().Bytes(),
		BroadcastedTo: broadcastedTo,
		Status:        int(aggregate.Status()),
		AssignedTo:    assignedTo,
		CreatedAt:     aggregate.CreatedAt(),
		AcceptedAt:    aggregate.AcceptedAt(),
	}
}

func toDomain(dto AssignmentDTO) (*assignment.DeliveryAssignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	broadcastedTo := make([]kernel.UUID, 0, len(dto.BroadcastedTo))
	for _, raw := range dto.BroadcastedTo {
		courierID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		broadcastedTo = append(broadcastedTo, courierID)
	}

	var assignedTo *kernel.UUID
	if dto.AssignedTo != nil {
		courierID, assignedErr := kernel.UUIDFromBytes((*dto.AssignedTo)[:])
		if assignedErr != nil {
			return nil, assignedErr
		}
		assignedTo = &courierID
	}

	return assignment.RestoreAssignment(
		id, orderID, broadcastedTo, assignment.Status(dto.Status), assignedTo, dto.CreatedAt, dto.AcceptedAt,
	)
}
