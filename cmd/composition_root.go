package cmd

import (
	"log/slog"
	"time"

	"grocery/internal/adapters/in/http"
	"grocery/internal/adapters/in/natsbus"
	natspub "grocery/internal/adapters/out/natsbus"
	"grocery/internal/adapters/out/postgres"
	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/jobs"
	"grocery/internal/pkg/metrics"
	"grocery/internal/pkg/retry"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	natsConn   *nats.Conn
	uowFactory *postgres.GormUnitOfWorkFactory
	counters   *metrics.Set
	registry   *prometheus.Registry
	runner     *retry.Runner
	finder     *commands.CandidateFinder
	logger     *slog.Logger
}

// NewCompositionRoot registers the service counters on a fresh registry.
func NewCompositionRoot(config Config, gormDB *gorm.DB, natsConn *nats.Conn, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	counters := metrics.NewSet()
	registry := prometheus.NewRegistry()
	if err := counters.Register(registry); err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		natsConn:   natsConn,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		counters:   counters,
		registry:   registry,
		logger:     logger,
	}
	c.runner = retry.NewRunner(retry.Config{
		MaxAttempts:    config.RetryAttempts,
		BaseDelay:      config.RetryBackoff,
		MaxDelay:       config.RetryBackoff * 10,
		AttemptTimeout: config.StoreTimeout,
	}, logger, counters.StoreRetries)
	c.finder = commands.NewCandidateFinder(c.matchUoWFactory(), c.runner, commands.MatchSettings{
		RadiusMeters: config.MatchRadiusMeters,
		OnlineOnly:   config.MatchOnlineOnly,
	})
	return c, nil
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) matchUoWFactory() commands.MatchUoWFactory {
	return FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateMarkOrderPaidCommandHandler() commands.MarkOrderPaidCommandHandler {
	return commands.NewMarkOrderPaidCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.uowFactoryFunc(),
		c.finder,
		natspub.NewPublisher(c.natsConn),
		c.runner,
		c.counters,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	return commands.NewAcceptAssignmentCommandHandler(c.assignmentUoWFactory(), c.runner, c.counters.AcceptConflicts, c.logger)
}

func (c *CompositionRoot) CreateCompleteAssignmentCommandHandler() commands.CompleteAssignmentCommandHandler {
	return commands.NewCompleteAssignmentCommandHandler(c.assignmentUoWFactory(), c.runner)
}

func (c *CompositionRoot) CreateExpireAssignmentsCommandHandler() commands.ExpireAssignmentsCommandHandler {
	return commands.NewExpireAssignmentsCommandHandler(c.assignmentUoWFactory(), c.counters.AssignmentsExpired)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateIdentifyCourierCommandHandler() commands.IdentifyCourierCommandHandler {
	return commands.NewIdentifyCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateDisconnectIdleCouriersCommandHandler() commands.DisconnectIdleCouriersCommandHandler {
	return commands.NewDisconnectIdleCouriersCommandHandler(c.courierUoWFactory(), c.counters.PresenceTimeouts)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.courierUoWFactory(), c.counters.LocationUpdates)
}

func (c *CompositionRoot) CreateDisconnectCourierCommandHandler() commands.DisconnectCourierCommandHandler {
	return commands.NewDisconnectCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserOrdersQueryHandler() queries.GetUserOrdersQueryHandler {
	return queries.NewGetUserOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenAssignmentsQueryHandler() queries.GetOpenAssignmentsQueryHandler {
	return queries.NewGetOpenAssignmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFindCandidatesQueryHandler() queries.FindCandidatesQueryHandler {
	return queries.NewFindCandidatesQueryHandler(c.gormDB, c.finder)
}

// CreateHTTPServer wires every use case into the REST adapter.
func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	createOrder := c.CreateCreateOrderCommandHandler()
	updateStatus := c.CreateUpdateOrderStatusCommandHandler()
	accept := c.CreateAcceptAssignmentCommandHandler()
	complete := c.CreateCompleteAssignmentCommandHandler()
	createCourier := c.CreateCreateCourierCommandHandler()
	identify := c.CreateIdentifyCourierCommandHandler()
	location := c.CreateReportLocationCommandHandler()
	disconnect := c.CreateDisconnectCourierCommandHandler()
	markPaid := c.CreateMarkOrderPaidCommandHandler()

	return http.NewServer(http.Handlers{
		CreateOrder:        &createOrder,
		UpdateOrderStatus:  &updateStatus,
		AcceptAssignment:   &accept,
		CompleteAssignment: &complete,
		CreateCourier:      &createCourier,
		IdentifyCourier:    &identify,
		ReportLocation:     &location,
		DisconnectCourier:  &disconnect,
		MarkOrderPaid:      &markPaid,

		GetAllOrders:       c.CreateGetAllOrdersQueryHandler(),
		GetUserOrders:      c.CreateGetUserOrdersQueryHandler(),
		GetAllCouriers:     c.CreateGetAllCouriersQueryHandler(),
		GetOpenAssignments: c.CreateGetOpenAssignmentsQueryHandler(),
		FindCandidates:     c.CreateFindCandidatesQueryHandler(),
	}, c.registry, c.config.StripeWebhookSecret)
}

// CreateLocationChannelSubscriber routes courier.identify, courier.location
// and courier.disconnect to their handlers. Start is left to the caller.
func (c *CompositionRoot) CreateLocationChannelSubscriber() *natsbus.Subscriber {
	identify := c.CreateIdentifyCourierCommandHandler()
	location := c.CreateReportLocationCommandHandler()
	disconnect := c.CreateDisconnectCourierCommandHandler()

	return natsbus.NewSubscriber(
		c.natsConn,
		c.config.NATSQueueGroup,
		c.config.StoreTimeout*time.Duration(c.config.RetryAttempts+1),
		&identify,
		&location,
		&disconnect,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	expire := c.CreateExpireAssignmentsCommandHandler()
	disconnectIdle := c.CreateDisconnectIdleCouriersCommandHandler()

	jm := jobs.NewJobManager()
	jm.Add("assignment expiry", jobs.NewAssignmentExpiryJob(&expire, c.config.ExpiryCron, c.config.BroadcastTTL, c.logger))
	jm.Add("presence sweep", jobs.NewPresenceSweepJob(&disconnectIdle, c.config.PresenceSweepCron, c.config.PresenceTTL, c.logger))
	return jm
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncMatchUoWFactory func() commands.MatchUoW

func (f FuncMatchUoWFactory) Create() commands.MatchUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
