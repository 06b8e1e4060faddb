package queries

import (
	"context"
	"database/sql"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderResponse is the read model of an order with its lines.
type OrderResponse struct {
	ID            kernel.UUID
	UserID        kernel.UUID
	Items         []OrderItemResponse
	TotalAmount   int64
	PaymentMethod string
	IsPaid        bool
	Status        string
	Address       AddressResponse
	AssignmentID  *kernel.UUID
	CreatedAt     time.Time
}

type OrderItemResponse struct {
	Name      string
	UnitPrice int64
	Quantity  int
	Unit      string
	Image     string
}

type AddressResponse struct {
	FullAddress string
	City        string
	State       string
	PostalCode  string
	Latitude    float64
	Longitude   float64
}

const selectOrders = `
	SELECT
		id,
		user_id,
		total_amount,
		payment_method,
		is_paid,
		status,
		address_full_address,
		address_city,
		address_state,
		address_postal_code,
		address_latitude,
		address_longitude,
		assignment_id,
		created_at
	FROM orders
`

// loadOrders runs selectOrders with the given suffix and attaches the items.
func loadOrders(ctx context.Context, db *gorm.DB, suffix string, args ...any) ([]OrderResponse, error) {
	rows, err := db.WithContext(ctx).Raw(selectOrders+suffix, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderResponse, 0)
	index := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0)

	for rows.Next() {
		var resp OrderResponse
		var id, userID uuid.UUID
		var assignmentID uuid.NullUUID
		var status int

		err = rows.Scan(
			&id,
			&userID,
			&resp.TotalAmount,
			&resp.PaymentMethod,
			&resp.IsPaid,
			&status,
			&resp.Address.FullAddress,
			&resp.Address.City,
			&resp.Address.State,
			&resp.Address.PostalCode,
			&resp.Address.Latitude,
			&resp.Address.Longitude,
			&assignmentID,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if assignmentID.Valid {
			aID, idErr := kernel.UUIDFromBytes(assignmentID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.AssignmentID = &aID
		}
		resp.Status = order.Status(status).String()
		resp.Items = make([]OrderItemResponse, 0)

		index[id] = len(orders)
		ids = append(ids, id)
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	if err = attachItems(ctx, db, orders, index, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

func attachItems(
	ctx context.Context,
	db *gorm.DB,
	orders []OrderResponse,
	index map[uuid.UUID]int,
	ids []uuid.UUID,
) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			name,
			unit_price,
			quantity,
			unit,
			image
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item OrderItemResponse
		var unit, image sql.NullString

		if err = rows.Scan(&orderID, &item.Name, &item.UnitPrice, &item.Quantity, &unit, &image); err != nil {
			return err
		}
		item.Unit = unit.String
		item.Image = image.String

		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return rows.Err()
}
