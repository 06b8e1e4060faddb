package orderrepo

import (
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type OrderDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID      `gorm:"type:uuid;index;not null"`
	Items         []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   int64          `gorm:"not null"`
	PaymentMethod string         `gorm:"type:varchar(16);not null"`
	IsPaid        bool           `gorm:"not null;default:false"`
	Status        int            `gorm:"not null;index"`
	Address       AddressDTO     `gorm:"embedded;embeddedPrefix:address_"`
	AssignmentID  *uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	CreatedAt     time.Time      `gorm:"not null;index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Position  int       `gorm:"not null"`
	Name      string    `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
	Unit      string
	Image     string
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

type AddressDTO struct {
	FullAddress string `gorm:"not null"`
	City        string
	State       string
	PostalCode  string
	Latitude    float64 `gorm:"type:double precision;not null"`
	Longitude   float64 `gorm:"type:double precision;not null"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var assignmentID *uuid.UUID
	if id := aggregate.Assignment(); id != nil {
		raw := id.Bytes()
		assignmentID = &raw
	}

	orderID := aggregate.ID().Bytes()
	items := aggregate.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			OrderID:   orderID,
			Position:  i,
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Unit:      item.Unit(),
			Image:     item.Image(),
		})
	}

	address := aggregate.Address()
	return OrderDTO{
		ID:            orderID,
		UserID:        aggregate.UserID().Bytes(),
		Items:         itemDTOs,
		TotalAmount:   aggregate.TotalAmount(),
		PaymentMethod: string(aggregate.PaymentMethod()),
		IsPaid:        aggregate.IsPaid(),
		Status:        int(aggregate.Status()),
		Address: AddressDTO{
			FullAddress: address.FullAddress(),
			City:        address.City(),
			State:       address.State(),
			PostalCode:  address.PostalCode(),
			Latitude:    address.Location().Latitude(),
			Longitude:   address.Location().Longitude(),
		},
		AssignmentID: assignmentID,
		CreatedAt:    aggregate.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var assignmentID *kernel.UUID
	if dto.AssignmentID != nil {
		aID, assignmentErr := kernel.UUIDFromBytes((*dto.AssignmentID)[:])
		if assignmentErr != nil {
			return nil, assignmentErr
		}

		assignmentID = &aID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity, itemDTO.Unit, itemDTO.Image)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	location, err := kernel.NewGeoPoint(dto.Address.Latitude, dto.Address.Longitude)
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddress(
		dto.Address.FullAddress, dto.Address.City, dto.Address.State, dto.Address.PostalCode, location,
	)
	if err != nil {
		return nil, err
	}

	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, userID, items, method, dto.IsPaid, order.Status(dto.Status), address, assignmentID, dto.CreatedAt,
	)
}
