package commands_test

import (
	"math"
	"testing"
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/retry"

	"github.com/stretchr/testify/require"
)

const (
	storeLat = 19.0760
	storeLon = 72.8777
)

func pointNorth(t *testing.T, meters float64) kernel.GeoPoint {
	t.Helper()
	deg := meters / (kernel.EarthRadiusMeters * math.Pi / 180)
	p, err := kernel.NewGeoPoint(storeLat+deg, storeLon)
	require.NoError(t, err)
	return p
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem("Milk", 6500, 2, "litre", "milk.png")
	require.NoError(t, err)
	address, err := order.NewAddress("12 Marine Drive", "Mumbai", "MH", "400002", pointNorth(t, 0))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item}, order.CashOnDelivery, address, time.Now())
	require.NoError(t, err)
	return o
}

func newOrderWithStatus(t *testing.T, status order.Status, assignmentID *kernel.UUID) *order.Order {
	t.Helper()
	base := newPendingOrder(t)
	o, err := order.RestoreOrder(
		base.ID(), base.UserID(), base.Items(), base.PaymentMethod(), false,
		status, base.Address(), assignmentID, base.CreatedAt(),
	)
	require.NoError(t, err)
	return o
}

func newCourierAt(t *testing.T, name string, meters float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "98200 00000", pointNorth(t, meters))
	require.NoError(t, err)
	return c
}

func newBroadcast(t *testing.T, orderID kernel.UUID, candidates ...kernel.UUID) *assignment.DeliveryAssignment {
	t.Helper()
	a, err := assignment.NewAssignment(kernel.NewUUID(), orderID, candidates, time.Now())
	require.NoError(t, err)
	return a
}

func newTestRunner() *retry.Runner {
	return retry.NewRunner(retry.Config{MaxAttempts: 2, AttemptTimeout: time.Second}, nil, nil)
}
