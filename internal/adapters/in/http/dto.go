package http

import (
	"time"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type NewOrderItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	Image     string `json:"image"`
}

type NewAddress struct {
	FullAddress string  `json:"fullAddress"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	PostalCode  string  `json:"pincode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewOrder is the checkout payload.
type NewOrder struct {
	UserID        string         `json:"userId"`
	Items         []NewOrderItem `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
	Address       NewAddress     `json:"address"`
}

type OrderItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	Image     string `json:"image,omitempty"`
}

type Address struct {
	FullAddress string   `json:"fullAddress"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	PostalCode  string   `json:"pincode"`
	Location    Location `json:"location"`
}

type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	IsPaid        bool        `json:"isPaid"`
	Status        string      `json:"status"`
	Address       Address     `json:"address"`
	AssignmentID  *string     `json:"assignment,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type Assignment struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	BroadcastedTo []string   `json:"broadcastedTo"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assignedTo,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
}

// DeliveryBoy is one broadcast recipient or match preview entry.
type DeliveryBoy struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Mobile         string   `json:"mobile"`
	Location       Location `json:"location"`
	DistanceMeters float64  `json:"distanceMeters"`
}

// StatusUpdateResponse reports the committed status change and what the
// matcher did afterwards.
type StatusUpdateResponse struct {
	Success                      bool          `json:"success"`
	Order                        Order         `json:"order"`
	Outcome                      string        `json:"outcome"`
	Message                      string        `json:"message"`
	Assignment                   *Assignment   `json:"assignment,omitempty"`
	AvailableDeliveryBoysPayload []DeliveryBoy `json:"availableDeliveryBoysPayload"`
}

type AcceptRequest struct {
	CourierID string `json:"courierId"`
}

type NewCourier struct {
	Name      string  `json:"name"`
	Mobile    string  `json:"mobile"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Courier struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Mobile   string   `json:"mobile"`
	Location Location `json:"location"`
	IsOnline bool     `json:"isOnline"`
	Busy     bool     `json:"busy"`
}

type IdentifyRequest struct {
	Handle string `json:"handle"`
}

type OpenAssignment struct {
	AssignmentID   string    `json:"assignmentId"`
	OrderID        string    `json:"orderId"`
	TotalAmount    int64     `json:"totalAmount"`
	PaymentMethod  string    `json:"paymentMethod"`
	FullAddress    string    `json:"fullAddress"`
	City           string    `json:"city"`
	Location       Location  `json:"location"`
	DistanceMeters float64   `json:"distanceMeters"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newItemInputs(items []NewOrderItem) []commands.OrderItemInput {
	inputs := make([]commands.OrderItemInput, len(items))
	for i, item := range items {
		inputs[i] = commands.OrderItemInput{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			Image:     item.Image,
		}
	}
	return inputs
}

func newAddressInput(a NewAddress) commands.AddressInput {
	return commands.AddressInput{
		FullAddress: a.FullAddress,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
	}
}

func orderFromDomain(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItem{
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Unit:      item.Unit(),
			Image:     item.Image(),
		})
	}

	address := o.Address()
	response := Order{
		ID:            o.ID().String(),
		UserID:        o.UserID().String(),
		Items:         items,
		TotalAmount:   o.TotalAmount(),
		PaymentMethod: string(o.PaymentMethod()),
		IsPaid:        o.IsPaid(),
		Status:        o.Status().String(),
		Address: Address{
			FullAddress: address.FullAddress(),
			City:        address.City(),
			State:       address.State(),
			PostalCode:  address.PostalCode(),
			Location: Location{
				Latitude:  address.Location().Latitude(),
				Longitude: address.Location().Longitude(),
			},
		},
		CreatedAt: o.CreatedAt(),
	}
	if id := o.Assignment(); id != nil {
		s := id.String()
		response.AssignmentID = &s
	}
	return response
}

func orderFromReadModel(o queries.OrderResponse) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem(item)
	}

	response := Order{
		ID:            o.ID.String(),
		UserID:        o.UserID.String(),
		Items:         items,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		IsPaid:        o.IsPaid,
		Status:        o.Status,
		Address: Address{
			FullAddress: o.Address.FullAddress,
			City:        o.Address.City,
			State:       o.Address.State,
			PostalCode:  o.Address.PostalCode,
			Location: Location{
				Latitude:  o.Address.Latitude,
				Longitude: o.Address.Longitude,
			},
		},
		CreatedAt: o.CreatedAt,
	}
	if o.AssignmentID != nil {
		s := o.AssignmentID.String()
		response.AssignmentID = &s
	}
	return response
}

func assignmentFromDomain(a *assignment.DeliveryAssignment) *Assignment {
	if a == nil {
		return nil
	}
	recipients := make([]string, 0, len(a.BroadcastedTo()))
	for _, id := range a.BroadcastedTo() {
		recipients = append(recipients, id.String())
	}

	response := &Assignment{
		ID:            a.ID().String(),
		OrderID:       a.OrderID().String(),
		BroadcastedTo: recipients,
		Status:        a.Status().String(),
		CreatedAt:     a.CreatedAt(),
		AcceptedAt:    a.AcceptedAt(),
	}
	if courierID := a.AssignedTo(); courierID != nil {
		s := courierID.String()
		response.AssignedTo = &s
	}
	return response
}

func statusUpdateFromResult(result commands.UpdateOrderStatusResult) StatusUpdateResponse {
	boys := make([]DeliveryBoy, 0, len(result.Candidates))
	for _, c := range queries.CandidateResponses(result.Candidates) {
		boys = append(boys, deliveryBoyFromCandidate(c))
	}

	return StatusUpdateResponse{
		Success:                      true,
		Order:                        orderFromDomain(result.Order),
		Outcome:                      string(result.Outcome),
		Message:                      result.Message(),
		Assignment:                   assignmentFromDomain(result.Assignment),
		AvailableDeliveryBoysPayload: boys,
	}
}

func deliveryBoyFromCandidate(c queries.CandidateResponse) DeliveryBoy {
	return DeliveryBoy{
		ID:             c.ID.String(),
		Name:           c.Name,
		Mobile:         c.Mobile,
		Location:       Location{Latitude: c.Latitude, Longitude: c.Longitude},
		DistanceMeters: c.DistanceMeters,
	}
}

func courierFromDomain(c *courier.Courier) Courier {
	return Courier{
		ID:     c.ID().String(),
		Name:   c.Name(),
		Mobile: c.Mobile(),
		Location: Location{
			Latitude:  c.Position().Latitude(),
			Longitude: c.Position().Longitude(),
		},
		IsOnline: c.IsOnline(),
	}
}
