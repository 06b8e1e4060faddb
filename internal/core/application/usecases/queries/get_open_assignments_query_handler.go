package queries

import (
	"context"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOpenAssignmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetOpenAssignmentsQueryHandler(db *gorm.DB) GetOpenAssignmentsQueryHandler {
	return GetOpenAssignmentsQueryHandler{db: db}
}

// Handle returns the courier's open offers, oldest first, with the distance
// from the courier's last known position to each delivery address. Offers
// whose order is no longer out for delivery are left out.
func (h GetOpenAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenAssignmentsQuery,
) ([]GetOpenAssignmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	courierID := query.CourierID()

	var position struct {
		Latitude  float64
		Longitude float64
	}
	result := db.Raw(`
		SELECT location_latitude AS latitude, location_longitude AS longitude
		FROM users
		WHERE id = ? AND role = ?
	`, courierID.Bytes(), courier.Role).Scan(&position)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("courier", courierID.String())
	}

	from, err := kernel.NewGeoPoint(position.Latitude, position.Longitude)
	if err != nil {
		return nil, err
	}

	rows, err := db.Raw(`
		SELECT
			a.id,
			a.order_id,
			a.created_at,
			o.total_amount,
			o.payment_method,
			o.address_full_address,
			o.address_city,
			o.address_latitude,
			o.address_longitude
		FROM delivery_assignments a
		JOIN orders o ON o.id = a.order_id
		WHERE a.status = ? AND ? = ANY(a.broadcasted_to) AND o.status = ?
		ORDER BY a.created_at, a.id
	`, int(assignment.Broadcasted), courierID.String(), int(order.OutForDelivery)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	open := make([]GetOpenAssignmentsQueryResponse, 0)
	for rows.Next() {
		var resp GetOpenAssignmentsQueryResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&resp.CreatedAt,
			&resp.TotalAmount,
			&resp.PaymentMethod,
			&resp.FullAddress,
			&resp.City,
			&resp.Latitude,
			&resp.Longitude,
		)
		if err != nil {
			return nil, err
		}

		if resp.AssignmentID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}

		to, pointErr := kernel.NewGeoPoint(resp.Latitude, resp.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		if resp.DistanceMeters, err = from.DistanceTo(to); err != nil {
			return nil, err
		}

		open = append(open, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return open, nil
}
