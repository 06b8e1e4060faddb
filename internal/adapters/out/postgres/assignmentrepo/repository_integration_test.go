package assignmentrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"grocery/internal/adapters/out/postgres/assignmentrepo"
	"grocery/internal/adapters/out/postgres/pgtest"
	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

func TestAcceptedStatusMatchesPartialIndex(t *testing.T) {
	// The partial unique index on assigned_to is declared with "status = 2".
	assert.Equal(t, 2, int(assignment.Accepted))
}

type AssignmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *assignmentrepo.GormAssignmentRepository
	tracker    *MockAggregateTracker
}

func TestAssignmentRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(AssignmentRepositoryIntegrationTestSuite))
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = assignmentrepo.NewGormAssignmentRepository(suite.database.DB, suite.tracker)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *AssignmentRepositoryIntegrationTestSuite) add(createdAt time.Time, candidates ...kernel.UUID) *assignment.DeliveryAssignment {
	a, err := assignment.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), candidates, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), a))
	return a
}

func (suite *AssignmentRepositoryIntegrationTestSuite) accept(a *assignment.DeliveryAssignment, courierID kernel.UUID) error {
	suite.Require().NoError(a.Accept(courierID, time.Now()))
	return suite.repository.Accept(context.Background(), a)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAdd_And_Get_PreservesCandidateOrder() {
	ctx := context.Background()
	first, second, third := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	a := suite.add(time.Now(), first, second, third)

	got, err := suite.repository.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{first, second, third}, got.BroadcastedTo())
	suite.Equal(assignment.Broadcasted, got.Status())
	suite.Nil(got.AssignedTo())

	byOrder, err := suite.repository.GetByOrder(ctx, a.OrderID())
	suite.Require().NoError(err)
	suite.Equal(a.ID(), byOrder.ID())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAdd_SecondAssignmentForOrder() {
	ctx := context.Background()
	a := suite.add(time.Now(), kernel.NewUUID())
	duplicate, err := assignment.NewAssignment(kernel.NewUUID(), a.OrderID(), []kernel.UUID{kernel.NewUUID()}, time.Now())
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, duplicate)

	suite.Require().ErrorIs(err, errs.ErrStateIsStale)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = suite.repository.GetByOrder(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAccept_StoresCourierAndTime() {
	ctx := context.Background()
	rider := kernel.NewUUID()
	a := suite.add(time.Now(), rider)

	suite.Require().NoError(suite.accept(a, rider))

	got, err := suite.repository.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Accepted, got.Status())
	suite.Require().NotNil(got.AssignedTo())
	suite.Equal(rider, *got.AssignedTo())
	suite.NotNil(got.AcceptedAt())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAccept_ConcurrentCouriersOneWinner() {
	ctx := context.Background()
	const couriers = 10
	ids := make([]kernel.UUID, 0, couriers)
	for range couriers {
		ids = append(ids, kernel.NewUUID())
	}
	a := suite.add(time.Now(), ids...)

	var wg sync.WaitGroup
	results := make([]error, couriers)
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			own, err := suite.repository.Get(ctx, a.ID())
			if err != nil {
				results[i] = err
				return
			}
			if err = own.Accept(id, time.Now()); err != nil {
				results[i] = err
				return
			}
			results[i] = suite.repository.Accept(ctx, own)
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		suite.True(errors.Is(err, errs.ErrStateIsStale) || errors.Is(err, assignment.ErrAlreadyAccepted), err.Error())
	}
	suite.Equal(1, winners)

	got, err := suite.repository.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Accepted, got.Status())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAccept_CourierOutsideBroadcast() {
	rider := kernel.NewUUID()
	a := suite.add(time.Now(), rider)
	stored, err := suite.repository.Get(context.Background(), a.ID())
	suite.Require().NoError(err)

	// Forge an aggregate that claims a different courier.
	stranger := kernel.NewUUID()
	now := time.Now()
	forged, err := assignment.RestoreAssignment(
		stored.ID(), stored.OrderID(), []kernel.UUID{stranger}, assignment.Accepted, &stranger, stored.CreatedAt(), &now,
	)
	suite.Require().NoError(err)

	err = suite.repository.Accept(context.Background(), forged)

	suite.Require().ErrorIs(err, errs.ErrStateIsStale)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAccept_CourierAlreadyBusy() {
	rider := kernel.NewUUID()
	first := suite.add(time.Now(), rider)
	second := suite.add(time.Now(), rider)
	suite.Require().NoError(suite.accept(first, rider))

	err := suite.accept(second, rider)

	suite.Require().ErrorIs(err, assignment.ErrCourierIsBusy)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestBusyCourierIDs_OnlyAccepted() {
	ctx := context.Background()
	busy := kernel.NewUUID()
	done := kernel.NewUUID()
	waiting := kernel.NewUUID()

	suite.Require().NoError(suite.accept(suite.add(time.Now(), busy), busy))

	completed := suite.add(time.Now(), done)
	suite.Require().NoError(suite.accept(completed, done))
	suite.Require().NoError(completed.Complete())
	suite.Require().NoError(suite.repository.Transition(ctx, completed, assignment.Accepted))

	suite.add(time.Now(), waiting)

	ids, err := suite.repository.BusyCourierIDs(ctx)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{busy}, ids)

	isBusy, err := suite.repository.IsCourierBusy(ctx, busy)
	suite.Require().NoError(err)
	suite.True(isBusy)

	isBusy, err = suite.repository.IsCourierBusy(ctx, done)
	suite.Require().NoError(err)
	suite.False(isBusy)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestTransition_StaleFromStatus() {
	ctx := context.Background()
	rider := kernel.NewUUID()
	a := suite.add(time.Now(), rider)
	suite.Require().NoError(suite.accept(a, rider))

	stale, err := assignment.RestoreAssignment(
		a.ID(), a.OrderID(), a.BroadcastedTo(), assignment.Broadcasted, nil, a.CreatedAt(), nil,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(stale.Expire())

	err = suite.repository.Transition(ctx, stale, assignment.Broadcasted)

	suite.Require().ErrorIs(err, errs.ErrStateIsStale)
	got, err := suite.repository.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Accepted, got.Status())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestListStaleBroadcasted() {
	ctx := context.Background()
	now := time.Now()
	oldest := suite.add(now.Add(-2*time.Hour), kernel.NewUUID())
	older := suite.add(now.Add(-time.Hour), kernel.NewUUID())
	suite.add(now, kernel.NewUUID())

	rider := kernel.NewUUID()
	acceptedOld := suite.add(now.Add(-3*time.Hour), rider)
	suite.Require().NoError(suite.accept(acceptedOld, rider))

	got, err := suite.repository.ListStaleBroadcasted(ctx, now.Add(-30*time.Minute), 10)
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal(oldest.ID(), got[0].ID())
	suite.Equal(older.ID(), got[1].ID())

	limited, err := suite.repository.ListStaleBroadcasted(ctx, now.Add(-30*time.Minute), 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}
