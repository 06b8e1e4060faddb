package http_test

import (
	"context"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockUpdateOrderStatusHandler struct{ mock.Mock }

func (m *MockUpdateOrderStatusHandler) Handle(
	ctx context.Context,
	cmd commands.UpdateOrderStatusCommand,
) (commands.UpdateOrderStatusResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.UpdateOrderStatusResult), args.Error(1)
}

type MockAcceptAssignmentHandler struct{ mock.Mock }

func (m *MockAcceptAssignmentHandler) Handle(
	ctx context.Context,
	cmd commands.AcceptAssignmentCommand,
) (*assignment.DeliveryAssignment, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.DeliveryAssignment), args.Error(1)
}

type MockReportLocationHandler struct{ mock.Mock }

func (m *MockReportLocationHandler) Handle(ctx context.Context, cmd commands.ReportLocationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockMarkOrderPaidHandler struct{ mock.Mock }

func (m *MockMarkOrderPaidHandler) Handle(ctx context.Context, cmd commands.MarkOrderPaidCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

type MockGetAllOrdersHandler struct{ mock.Mock }

func (m *MockGetAllOrdersHandler) Handle(ctx context.Context, query queries.GetAllOrdersQuery) ([]queries.OrderResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.OrderResponse), args.Error(1)
}

type MockGetAllCouriersHandler struct{ mock.Mock }

func (m *MockGetAllCouriersHandler) Handle(
	ctx context.Context,
	query queries.GetAllCouriersQuery,
) ([]queries.GetAllCouriersQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetAllCouriersQueryResponse), args.Error(1)
}

type MockFindCandidatesHandler struct{ mock.Mock }

func (m *MockFindCandidatesHandler) Handle(
	ctx context.Context,
	query queries.FindCandidatesQuery,
) ([]queries.CandidateResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.CandidateResponse), args.Error(1)
}
