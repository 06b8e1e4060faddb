// Package http exposes the delivery core over REST with echo.
package http

import (
	"context"
	"net/http"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type (
	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	updateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (commands.UpdateOrderStatusResult, error)
	}
	acceptAssignmentHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptAssignmentCommand) (*assignment.DeliveryAssignment, error)
	}
	completeAssignmentHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteAssignmentCommand) (*assignment.DeliveryAssignment, error)
	}
	createCourierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) (*courier.Courier, error)
	}
	identifyCourierHandler interface {
		Handle(ctx context.Context, cmd commands.IdentifyCourierCommand) (*courier.Courier, error)
	}
	reportLocationHandler interface {
		Handle(ctx context.Context, cmd commands.ReportLocationCommand) error
	}
	disconnectCourierHandler interface {
		Handle(ctx context.Context, cmd commands.DisconnectCourierCommand) (*courier.Courier, error)
	}
	markOrderPaidHandler interface {
		Handle(ctx context.Context, cmd commands.MarkOrderPaidCommand) (bool, error)
	}

	getAllOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAllOrdersQuery) ([]queries.OrderResponse, error)
	}
	getUserOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetUserOrdersQuery) ([]queries.OrderResponse, error)
	}
	getAllCouriersHandler interface {
		Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.GetAllCouriersQueryResponse, error)
	}
	getOpenAssignmentsHandler interface {
		Handle(ctx context.Context, query queries.GetOpenAssignmentsQuery) ([]queries.GetOpenAssignmentsQueryResponse, error)
	}
	findCandidatesHandler interface {
		Handle(ctx context.Context, query queries.FindCandidatesQuery) ([]queries.CandidateResponse, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder        createOrderHandler
	UpdateOrderStatus  updateOrderStatusHandler
	AcceptAssignment   acceptAssignmentHandler
	CompleteAssignment completeAssignmentHandler
	CreateCourier      createCourierHandler
	IdentifyCourier    identifyCourierHandler
	ReportLocation     reportLocationHandler
	DisconnectCourier  disconnectCourierHandler
	MarkOrderPaid      markOrderPaidHandler

	GetAllOrders       getAllOrdersHandler
	GetUserOrders      getUserOrdersHandler
	GetAllCouriers     getAllCouriersHandler
	GetOpenAssignments getOpenAssignmentsHandler
	FindCandidates     findCandidatesHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h             Handlers
	gatherer      prometheus.Gatherer
	webhookSecret string
}

// NewServer falls back to the default Prometheus gatherer when gatherer is nil.
func NewServer(h Handlers, gatherer prometheus.Gatherer, webhookSecret string) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{h: h, gatherer: gatherer, webhookSecret: webhookSecret}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:orderId/status", s.UpdateOrderStatus)
	api.GET("/orders/:orderId/candidates", s.GetCandidates)
	api.GET("/users/:userId/orders", s.GetUserOrders)

	api.POST("/assignments/:assignmentId/accept", s.AcceptAssignment)
	api.POST("/assignments/:assignmentId/complete", s.CompleteAssignment)

	api.POST("/couriers", s.CreateCourier)
	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers/:courierId/identify", s.IdentifyCourier)
	api.POST("/couriers/:courierId/location", s.ReportLocation)
	api.POST("/couriers/:courierId/disconnect", s.DisconnectCourier)
	api.GET("/couriers/:courierId/assignments/open", s.GetOpenAssignments)

	api.POST("/payments/stripe/webhook", s.StripeWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// CreateOrder handles POST /api/v1/orders - places an order at checkout.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		userID,
		newItemInputs(body.Items),
		body.PaymentMethod,
		newAddressInput(body.Address),
	)
	if err != nil {
		return respondError(ctx, err)
	}

	o, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(o))
}

// GetOrders handles GET /api/v1/orders - newest first, optional ?limit=.
func (s *Server) GetOrders(ctx echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
		return badRequest(ctx, "limit must be an integer")
	}

	query, err := queries.NewGetAllOrdersQuery(limit)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.h.GetAllOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ordersFromReadModel(orders))
}

// GetUserOrders handles GET /api/v1/users/:userId/orders.
func (s *Server) GetUserOrders(ctx echo.Context) error {
	userID, err := pathUUID(ctx, "userId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetUserOrdersQuery(userID)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.h.GetUserOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ordersFromReadModel(orders))
}

func ordersFromReadModel(orders []queries.OrderResponse) []Order {
	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = orderFromReadModel(o)
	}
	return response
}

// UpdateOrderStatus handles POST /api/v1/orders/:orderId/status.
//
// Once the status change is committed the response is 200, whatever the
// matcher did afterwards; the outcome field tells the admin which case applied.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, body.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.h.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, statusUpdateFromResult(result))
}

// GetCandidates handles GET /api/v1/orders/:orderId/candidates.
func (s *Server) GetCandidates(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewFindCandidatesQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	candidates, err := s.h.FindCandidates.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]DeliveryBoy, len(candidates))
	for i, c := range candidates {
		response[i] = deliveryBoyFromCandidate(c)
	}
	return ctx.JSON(http.StatusOK, response)
}

// AcceptAssignment handles POST /api/v1/assignments/:assignmentId/accept.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentId")
	if err != nil {
		return respondError(ctx, err)
	}

	var body AcceptRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(body.CourierID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAcceptAssignmentCommand(assignmentID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	a, err := s.h.AcceptAssignment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignmentFromDomain(a))
}

// CompleteAssignment handles POST /api/v1/assignments/:assignmentId/complete.
func (s *Server) CompleteAssignment(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompleteAssignmentCommand(assignmentID)
	if err != nil {
		return respondError(ctx, err)
	}

	a, err := s.h.CompleteAssignment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignmentFromDomain(a))
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var body NewCourier
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), body.Name, body.Mobile, body.Latitude, body.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	c, err := s.h.CreateCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, courierFromDomain(c))
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.h.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = Courier{
			ID:       c.ID.String(),
			Name:     c.Name,
			Mobile:   c.Mobile,
			Location: Location{Latitude: c.Latitude, Longitude: c.Longitude},
			IsOnline: c.IsOnline,
			Busy:     c.Busy,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// IdentifyCourier handles POST /api/v1/couriers/:courierId/identify.
func (s *Server) IdentifyCourier(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	var body IdentifyRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewIdentifyCourierCommand(courierID, body.Handle)
	if err != nil {
		return respondError(ctx, err)
	}

	c, err := s.h.IdentifyCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, courierFromDomain(c))
}

// ReportLocation handles POST /api/v1/couriers/:courierId/location.
func (s *Server) ReportLocation(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	var body Location
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReportLocationCommand(courierID, body.Latitude, body.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.ReportLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DisconnectCourier handles POST /api/v1/couriers/:courierId/disconnect.
func (s *Server) DisconnectCourier(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDisconnectCourierCommand(courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	c, err := s.h.DisconnectCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, courierFromDomain(c))
}

// GetOpenAssignments handles GET /api/v1/couriers/:courierId/assignments/open.
func (s *Server) GetOpenAssignments(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOpenAssignmentsQuery(courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	open, err := s.h.GetOpenAssignments.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]OpenAssignment, len(open))
	for i, a := range open {
		response[i] = OpenAssignment{
			AssignmentID:   a.AssignmentID.String(),
			OrderID:        a.OrderID.String(),
			TotalAmount:    a.TotalAmount,
			PaymentMethod:  a.PaymentMethod,
			FullAddress:    a.FullAddress,
			City:           a.City,
			Location:       Location{Latitude: a.Latitude, Longitude: a.Longitude},
			DistanceMeters: a.DistanceMeters,
			CreatedAt:      a.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
