package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "grocery/internal/adapters/in/http"
	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/domain/services"
	"grocery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho(h httpadapter.Handlers) *echo.Echo {
	e := echo.New()
	httpadapter.NewServer(h, prometheus.NewRegistry(), testWebhookSecret).Register(e)
	return e
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem("Bread", 4000, 1, "loaf", "")
	require.NoError(t, err)
	location, err := kernel.NewGeoPoint(19.076, 72.8777)
	require.NoError(t, err)
	address, err := order.NewAddress("12 Marine Drive", "Mumbai", "MH", "400002", location)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item}, order.Online, address, time.Now())
	require.NoError(t, err)
	return o
}

func newCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	position, err := kernel.NewGeoPoint(19.08, 72.88)
	require.NoError(t, err)
	c, err := courier.NewCourier(kernel.NewUUID(), name, "98200 11111", position)
	require.NoError(t, err)
	return c
}

func TestHealth(t *testing.T) {
	rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		created := newOrder(t)
		handler := new(MockCreateOrderHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return cmd.UserID() == created.UserID() && len(cmd.Items()) == 1
		})).Return(created, nil).Once()

		body := `{
			"userId": "` + created.UserID().String() + `",
			"items": [{"name": "Bread", "price": 4000, "quantity": 1, "unit": "loaf"}],
			"paymentMethod": "online",
			"address": {"fullAddress": "12 Marine Drive", "city": "Mumbai", "state": "MH",
				"pincode": "400002", "latitude": 19.076, "longitude": 72.8777}
		}`
		rec := serve(newTestEcho(httpadapter.Handlers{CreateOrder: handler}), http.MethodPost, "/api/v1/orders", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		got := decode[httpadapter.Order](t, rec)
		assert.Equal(t, created.ID().String(), got.ID)
		assert.Equal(t, "pending", got.Status)
		assert.Equal(t, int64(4000), got.TotalAmount)
		handler.AssertExpectations(t)
	})

	t.Run("invalid input is rejected before the handler", func(t *testing.T) {
		handler := new(MockCreateOrderHandler)
		body := `{"userId": "` + kernel.NewUUID().String() + `", "items": [], "paymentMethod": "barter"}`

		rec := serve(newTestEcho(httpadapter.Handlers{CreateOrder: handler}), http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodPost, "/api/v1/orders", `{"userId":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOrders(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		handler := new(MockGetAllOrdersHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetAllOrdersQuery) bool {
			return q.Limit() == queries.DefaultOrdersLimit
		})).Return([]queries.OrderResponse{{ID: kernel.NewUUID(), Status: "pending"}}, nil).Once()

		rec := serve(newTestEcho(httpadapter.Handlers{GetAllOrders: handler}), http.MethodGet, "/api/v1/orders", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]httpadapter.Order](t, rec), 1)
		handler.AssertExpectations(t)
	})

	t.Run("limit out of range", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodGet, "/api/v1/orders?limit=5000", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("limit not a number", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodGet, "/api/v1/orders?limit=ten", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("assignment created", func(t *testing.T) {
		o := newOrder(t)
		near := newCourier(t, "Asha")
		a, err := assignment.NewAssignment(kernel.NewUUID(), o.ID(), []kernel.UUID{near.ID()}, time.Now())
		require.NoError(t, err)

		handler := new(MockUpdateOrderStatusHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
			return cmd.OrderID() == o.ID() && cmd.Status() == order.OutForDelivery
		})).Return(commands.UpdateOrderStatusResult{
			Order:      o,
			Outcome:    commands.OutcomeAssignmentCreated,
			Assignment: a,
			Candidates: []services.Candidate{{Courier: near, DistanceMeters: 1200}},
		}, nil).Once()

		rec := serve(newTestEcho(httpadapter.Handlers{UpdateOrderStatus: handler}), http.MethodPost,
			"/api/v1/orders/"+o.ID().String()+"/status", `{"status":"out of delivery"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[httpadapter.StatusUpdateResponse](t, rec)
		assert.True(t, got.Success)
		assert.Equal(t, "assignment_created", got.Outcome)
		require.NotNil(t, got.Assignment)
		assert.Equal(t, a.ID().String(), got.Assignment.ID)
		assert.Equal(t, []string{near.ID().String()}, got.Assignment.BroadcastedTo)
		require.Len(t, got.AvailableDeliveryBoysPayload, 1)
		assert.Equal(t, "Asha", got.AvailableDeliveryBoysPayload[0].Name)
		assert.InDelta(t, 1200, got.AvailableDeliveryBoysPayload[0].DistanceMeters, 1e-9)
	})

	t.Run("no candidates is still a success", func(t *testing.T) {
		o := newOrder(t)
		handler := new(MockUpdateOrderStatusHandler)
		handler.On("Handle", mock.Anything, mock.Anything).Return(commands.UpdateOrderStatusResult{
			Order:   o,
			Outcome: commands.OutcomeNoCandidates,
		}, nil).Once()

		rec := serve(newTestEcho(httpadapter.Handlers{UpdateOrderStatus: handler}), http.MethodPost,
			"/api/v1/orders/"+o.ID().String()+"/status", `{"status":"out-for-delivery"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[httpadapter.StatusUpdateResponse](t, rec)
		assert.Equal(t, "no_candidates", got.Outcome)
		assert.Nil(t, got.Assignment)
		assert.NotNil(t, got.AvailableDeliveryBoysPayload)
		assert.Empty(t, got.AvailableDeliveryBoysPayload)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodPost,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"lost"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad order id", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodPost, "/api/v1/orders/42/status", `{"status":"pending"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	errorCases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", errs.NewObjectNotFoundError("order", kernel.NewUUID()), http.StatusNotFound},
		{"delivered is final", errs.NewTransitionIsInvalidError("order", "delivered", "pending"), http.StatusConflict},
		{"store unavailable", errs.NewInfrastructureError("update order status", errors.New("timeout")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := new(MockUpdateOrderStatusHandler)
			handler.On("Handle", mock.Anything, mock.Anything).Return(commands.UpdateOrderStatusResult{}, tc.err).Once()

			rec := serve(newTestEcho(httpadapter.Handlers{UpdateOrderStatus: handler}), http.MethodPost,
				"/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"pending"}`)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.code, decode[httpadapter.Error](t, rec).Code)
		})
	}
}

func TestAcceptAssignment(t *testing.T) {
	assignmentID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	path := "/api/v1/assignments/" + assignmentID.String() + "/accept"
	body := `{"courierId":"` + courierID.String() + `"}`

	t.Run("accepted", func(t *testing.T) {
		a, err := assignment.NewAssignment(assignmentID, kernel.NewUUID(), []kernel.UUID{courierID}, time.Now())
		require.NoError(t, err)
		require.NoError(t, a.Accept(courierID, time.Now()))

		handler := new(MockAcceptAssignmentHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AcceptAssignmentCommand) bool {
			return cmd.AssignmentID() == assignmentID && cmd.CourierID() == courierID
		})).Return(a, nil).Once()

		rec := serve(newTestEcho(httpadapter.Handlers{AcceptAssignment: handler}), http.MethodPost, path, body)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[httpadapter.Assignment](t, rec)
		assert.Equal(t, "accepted", got.Status)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, courierID.String(), *got.AssignedTo)
		assert.NotNil(t, got.AcceptedAt)
	})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"lost race", assignment.ErrAlreadyAccepted, http.StatusConflict},
		{"courier busy", errs.NewTransitionIsInvalidErrorWithCause("assignment", "broadcasted", "accepted", assignment.ErrCourierIsBusy), http.StatusConflict},
		{"not a recipient", assignment.ErrCourierNotBroadcasted, http.StatusForbidden},
		{"unknown assignment", errs.NewObjectNotFoundError("assignment", assignmentID), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := new(MockAcceptAssignmentHandler)
			handler.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := serve(newTestEcho(httpadapter.Handlers{AcceptAssignment: handler}), http.MethodPost, path, body)

			assert.Equal(t, tc.code, rec.Code)
		})
	}

	t.Run("courier id required", func(t *testing.T) {
		rec := serve(newTestEcho(httpadapter.Handlers{}), http.MethodPost, path, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportLocation(t *testing.T) {
	courierID := kernel.NewUUID()
	path := "/api/v1/couriers/" + courierID.String() + "/location"

	t.Run("applied", func(t *testing.T) {
		handler := new(MockReportLocationHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReportLocationCommand) bool {
			return cmd.CourierID() == courierID && cmd.Position().Longitude() == 72.9
		})).Return(nil).Once()

		rec := serve(newTestEcho(httpadapter.Handlers{ReportLocation: handler}), http.MethodPost, path,
			`{"latitude":19.1,"longitude":72.9}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		handler.AssertExpectations(t)
	})

	t.Run("out of range", func(t *testing.T) {
		handler := new(MockReportLocationHandler)

		rec := serve(newTestEcho(httpadapter.Handlers{ReportLocation: handler}), http.MethodPost, path,
			`{"latitude":91,"longitude":72.9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestGetCouriers(t *testing.T) {
	handler := new(MockGetAllCouriersHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetAllCouriersQueryResponse{
		{ID: kernel.NewUUID(), Name: "Asha", IsOnline: true, Busy: true},
		{ID: kernel.NewUUID(), Name: "Ravi"},
	}, nil).Once()

	rec := serve(newTestEcho(httpadapter.Handlers{GetAllCouriers: handler}), http.MethodGet, "/api/v1/couriers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]httpadapter.Courier](t, rec)
	require.Len(t, got, 2)
	assert.True(t, got[0].Busy)
	assert.False(t, got[1].IsOnline)
}

func TestGetCandidates(t *testing.T) {
	orderID := kernel.NewUUID()
	handler := new(MockFindCandidatesHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.FindCandidatesQuery) bool {
		return q.OrderID() == orderID
	})).Return([]queries.CandidateResponse{
		{ID: kernel.NewUUID(), Name: "Asha", DistanceMeters: 1200},
		{ID: kernel.NewUUID(), Name: "Ravi", DistanceMeters: 4800},
	}, nil).Once()

	rec := serve(newTestEcho(httpadapter.Handlers{FindCandidates: handler}), http.MethodGet,
		"/api/v1/orders/"+orderID.String()+"/candidates", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]httpadapter.DeliveryBoy](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Asha", got[0].Name)
	assert.Equal(t, "Ravi", got[1].Name)
}
