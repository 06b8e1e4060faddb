package ports

import (
	"context"
	"time"
)

// Broadcast is the job offer pushed to one candidate courier.
type Broadcast struct {
	AssignmentID   string    `json:"assignmentId"`
	OrderID        string    `json:"orderId"`
	CourierID      string    `json:"courierId"`
	DistanceMeters float64   `json:"distanceMeters"`
	TotalAmount    int64     `json:"totalAmount"`
	PaymentMethod  string    `json:"paymentMethod"`
	FullAddress    string    `json:"fullAddress"`
	City           string    `json:"city"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	ItemCount      int       `json:"itemCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BroadcastPublisher pushes offers to couriers over the real-time channel.
// Delivery is best effort: a courier without a live connection misses the push.
type BroadcastPublisher interface {
	// Publish sends the offer to the connection identified by handle.
	Publish(ctx context.Context, handle string, broadcast Broadcast) error
}
