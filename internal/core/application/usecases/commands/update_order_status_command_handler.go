package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/domain/services"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/metrics"
	"grocery/internal/pkg/retry"
)

// AssignmentOutcome tells the caller what happened after the status change
// itself was committed.
type AssignmentOutcome string

const (
	// OutcomeStatusUpdated means no matcher run was needed: the target status is
	// not out-for-delivery, or the order already has an assignment.
	OutcomeStatusUpdated AssignmentOutcome = "status_updated"
	// OutcomeAssignmentCreated means a new assignment was broadcast.
	OutcomeAssignmentCreated AssignmentOutcome = "assignment_created"
	// OutcomeNoCandidates means the matcher found no idle courier in range.
	OutcomeNoCandidates AssignmentOutcome = "no_candidates"
	// OutcomeAssignmentFailed means the matcher or the assignment write failed.
	OutcomeAssignmentFailed AssignmentOutcome = "assignment_failed"
)

// UpdateOrderStatusResult is returned whenever the status change was committed.
type UpdateOrderStatusResult struct {
	Order      *order.Order
	Outcome    AssignmentOutcome
	Assignment *assignment.DeliveryAssignment
	// Candidates is the broadcast list, nearest first. Set only for OutcomeAssignmentCreated.
	Candidates []services.Candidate
	// AssignmentErr carries the cause for OutcomeAssignmentFailed.
	AssignmentErr error
}

func (r UpdateOrderStatusResult) Message() string {
	switch r.Outcome {
	case OutcomeAssignmentCreated:
		return fmt.Sprintf("Order status updated and broadcast to %d delivery boys", len(r.Candidates))
	case OutcomeNoCandidates:
		return "Order status updated, but no delivery boys available nearby"
	case OutcomeAssignmentFailed:
		return "Order status updated, but assignment failed"
	default:
		return "Order status updated"
	}
}

type candidateFinder interface {
	Find(ctx context.Context, origin kernel.GeoPoint) ([]services.Candidate, error)
}

// UpdateOrderStatusCommandHandler applies an admin status change and, when an
// order first goes out for delivery, creates and broadcasts its assignment.
//
// The status write and the assignment creation are separate transactions.
// A failing second step never undoes the first; it is reported through
// UpdateOrderStatusResult.Outcome instead of the returned error.
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory, finder, publisher, runner, counters, logger)
//	cmd, err := NewUpdateOrderStatusCommand(orderID, "out-for-delivery")
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("status update failed: %w", err)
//	}
//	if result.Outcome == OutcomeAssignmentCreated {
//	    log.Printf("broadcast to %d couriers", len(result.Candidates))
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	finder     candidateFinder
	publisher  ports.BroadcastPublisher
	runner     *retry.Runner
	counters   *metrics.Set
	logger     *slog.Logger
	now        func() time.Time
}

// NewUpdateOrderStatusCommandHandler wires the status transition.
//
// Parameters:
//   - uowFactory: transactions over orders and assignments
//   - finder: the matcher run for orders going out for delivery
//   - publisher: pushes offers to reachable candidates after commit
//   - runner: retries each step once on infrastructure failures
//   - counters: matcher and broadcast metrics
//   - logger: nil falls back to slog.Default()
func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	finder candidateFinder,
	publisher ports.BroadcastPublisher,
	runner *retry.Runner,
	counters *metrics.Set,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		finder:     finder,
		publisher:  publisher,
		runner:     runner,
		counters:   counters,
		logger:     logger.With("component", "order-status"),
		now:        time.Now,
	}
}

// Handle returns an error only when the status change itself failed: the
// order is missing, the transition is invalid, or another request changed
// the status first (errs.ErrStateIsStale). Everything after the commit is
// reported in the result.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	o, err := retry.Value(ctx, h.runner, "update order status", func(ctx context.Context) (*order.Order, error) {
		return h.applyStatus(ctx, cmd)
	})
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	result := UpdateOrderStatusResult{Order: o, Outcome: OutcomeStatusUpdated}
	if !o.NeedsAssignment() {
		return result, nil
	}

	candidates, err := h.finder.Find(ctx, o.DeliveryLocation())
	if err != nil {
		return h.assignmentFailed(ctx, result, err), nil
	}

	if len(candidates) == 0 {
		h.counters.NoCandidates.Inc()
		h.logger.InfoContext(ctx, "no couriers available nearby", "order_id", o.ID().String())
		result.Outcome = OutcomeNoCandidates
		return result, nil
	}

	created, err := retry.Value(ctx, h.runner, "create assignment", func(ctx context.Context) (*assignmentCreation, error) {
		return h.createAssignment(ctx, o.ID(), candidates)
	})
	if err != nil {
		return h.assignmentFailed(ctx, result, err), nil
	}
	if created == nil {
		// Another request linked an assignment first, or the order left
		// out-for-delivery in between.
		return result, nil
	}

	h.counters.AssignmentsCreated.Inc()
	h.logger.InfoContext(ctx, "delivery assignment broadcasted",
		"order_id", o.ID().String(),
		"assignment_id", created.assignment.ID().String(),
		"candidates", len(candidates),
	)
	h.broadcast(ctx, created.order, created.assignment, candidates)

	result.Order = created.order
	result.Outcome = OutcomeAssignmentCreated
	result.Assignment = created.assignment
	result.Candidates = candidates
	return result, nil
}

func (h *UpdateOrderStatusCommandHandler) applyStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	if err = o.ChangeStatus(cmd.Status()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, from); err != nil {
		return nil, err
	}

	if o.Status() == order.Delivered && o.HasAssignment() {
		if err = closeAssignment(ctx, uow.AssignmentRepository(), *o.Assignment()); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// closeAssignment makes the assignment of a delivered order terminal: an
// accepted one is completed, an open broadcast is expired so no candidate can
// still take it. Both writes are compare-and-set on the status just read.
func closeAssignment(ctx context.Context, repo ports.AssignmentRepository, id kernel.UUID) error {
	a, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	from := a.Status()
	switch from {
	case assignment.Accepted:
		err = a.Complete()
	case assignment.Broadcasted:
		err = a.Expire()
	default:
		return nil
	}
	if err != nil {
		return err
	}

	return repo.Transition(ctx, a, from)
}

type assignmentCreation struct {
	order      *order.Order
	assignment *assignment.DeliveryAssignment
}

// createAssignment links and inserts the assignment in one transaction. The
// link is conditional on the stored order having no assignment yet, so of two
// concurrent requests only one creates anything; the other gets nil.
func (h *UpdateOrderStatusCommandHandler) createAssignment(
	ctx context.Context,
	orderID kernel.UUID,
	candidates []services.Candidate,
) (*assignmentCreation, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.NeedsAssignment() {
		return nil, nil
	}

	a, err := assignment.NewAssignment(kernel.NewUUID(), o.ID(), services.CourierIDs(candidates), h.now())
	if err != nil {
		return nil, err
	}

	if err = o.LinkAssignment(a.ID()); err != nil {
		return nil, err
	}

	linked, err := orderRepo.LinkAssignment(ctx, o)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, nil
	}

	if err = uow.AssignmentRepository().Add(ctx, a); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return &assignmentCreation{order: o, assignment: a}, nil
}

func (h *UpdateOrderStatusCommandHandler) assignmentFailed(
	ctx context.Context,
	result UpdateOrderStatusResult,
	err error,
) UpdateOrderStatusResult {
	h.counters.AssignmentFailures.Inc()
	h.logger.ErrorContext(ctx, "order status updated, assignment failed",
		"order_id", result.Order.ID().String(),
		"error", err,
	)
	result.Outcome = OutcomeAssignmentFailed
	result.AssignmentErr = err
	return result
}

// broadcast pushes the offer to every candidate with a live connection.
// Push failures are logged; the assignment stays open for polling.
func (h *UpdateOrderStatusCommandHandler) broadcast(
	ctx context.Context,
	o *order.Order,
	a *assignment.DeliveryAssignment,
	candidates []services.Candidate,
) {
	address := o.Address()
	for _, c := range candidates {
		if !c.Courier.Reachable() {
			continue
		}

		msg := ports.Broadcast{
			AssignmentID:   a.ID().String(),
			OrderID:        o.ID().String(),
			CourierID:      c.Courier.ID().String(),
			DistanceMeters: c.DistanceMeters,
			TotalAmount:    o.TotalAmount(),
			PaymentMethod:  string(o.PaymentMethod()),
			FullAddress:    address.FullAddress(),
			City:           address.City(),
			Latitude:       address.Location().Latitude(),
			Longitude:      address.Location().Longitude(),
			ItemCount:      len(o.Items()),
			CreatedAt:      a.CreatedAt(),
		}
		if err := h.publisher.Publish(ctx, c.Courier.Handle(), msg); err != nil {
			h.logger.WarnContext(ctx, "broadcast push failed",
				"assignment_id", a.ID().String(),
				"courier_id", c.Courier.ID().String(),
				"error", err,
			)
			continue
		}
		h.counters.BroadcastsPublished.Inc()
	}
}
