package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/retry"
)

// AcceptAssignmentCommandHandler resolves concurrent acceptances with a
// compare-and-set on the stored assignment: exactly one courier wins, every
// other one receives assignment.ErrAlreadyAccepted.
//
// An offer can only be taken while its order is out for delivery, and only
// by a courier holding no other accepted assignment.
//
// Example:
//
//	handler := NewAcceptAssignmentCommandHandler(uowFactory, runner, counters.AcceptConflicts, logger)
//	cmd, _ := NewAcceptAssignmentCommand(assignmentID, courierID)
//
//	a, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, assignment.ErrAlreadyAccepted) {
//	    // another courier was faster
//	}
type AcceptAssignmentCommandHandler struct {
	uowFactory AssignmentUoWFactory
	runner     *retry.Runner
	conflicts  counter
	logger     *slog.Logger
	now        func() time.Time
}

// NewAcceptAssignmentCommandHandler creates the acceptance handler. conflicts
// counts lost races and may be nil.
func NewAcceptAssignmentCommandHandler(
	uowFactory AssignmentUoWFactory,
	runner *retry.Runner,
	conflicts counter,
	logger *slog.Logger,
) AcceptAssignmentCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AcceptAssignmentCommandHandler{
		uowFactory: uowFactory,
		runner:     runner,
		conflicts:  conflicts,
		logger:     logger.With("component", "assignment-accept"),
		now:        time.Now,
	}
}

// Handle returns the accepted assignment. Rejections are
// errs.ErrTransitionIsInvalid joined with the reason: ErrAlreadyAccepted,
// ErrCourierNotBroadcasted, ErrCourierIsBusy or ErrOrderNotOutForDelivery.
func (h *AcceptAssignmentCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptAssignmentCommand,
) (*assignment.DeliveryAssignment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := retry.Value(ctx, h.runner, "accept assignment", func(ctx context.Context) (*assignment.DeliveryAssignment, error) {
		return h.accept(ctx, cmd)
	})
	if errors.Is(err, assignment.ErrAlreadyAccepted) {
		if h.conflicts != nil {
			h.conflicts.Inc()
		}
		h.logger.InfoContext(ctx, "acceptance lost",
			"assignment_id", cmd.AssignmentID().String(),
			"courier_id", cmd.CourierID().String(),
		)
	}
	return a, err
}

func (h *AcceptAssignmentCommandHandler) accept(
	ctx context.Context,
	cmd AcceptAssignmentCommand,
) (*assignment.DeliveryAssignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AssignmentRepository()
	a, err := repo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return nil, err
	}

	now := h.now()
	if err = a.Accept(cmd.CourierID(), now); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, a.OrderID())
	if err != nil {
		return nil, err
	}
	if o.Status() != order.OutForDelivery {
		return nil, errs.NewTransitionIsInvalidErrorWithCause(
			"assignment", assignment.Broadcasted.String(), assignment.Accepted.String(), assignment.ErrOrderNotOutForDelivery)
	}

	busy, err := repo.IsCourierBusy(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, errs.NewTransitionIsInvalidErrorWithCause(
			"assignment", assignment.Broadcasted.String(), assignment.Accepted.String(), assignment.ErrCourierIsBusy)
	}

	if err = repo.Accept(ctx, a); err != nil {
		if !errors.Is(err, errs.ErrStateIsStale) {
			return nil, err
		}
		return nil, h.explainLostRace(ctx, uow, cmd, now)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// explainLostRace rereads the assignment after a failed compare-and-set and
// reports why this courier could not take it.
func (h *AcceptAssignmentCommandHandler) explainLostRace(
	ctx context.Context,
	uow AssignmentUoW,
	cmd AcceptAssignmentCommand,
	now time.Time,
) error {
	alreadyAccepted := errs.NewTransitionIsInvalidErrorWithCause(
		"assignment", assignment.Broadcasted.String(), assignment.Accepted.String(), assignment.ErrAlreadyAccepted)

	fresh, err := uow.AssignmentRepository().Get(ctx, cmd.AssignmentID())
	if err != nil {
		return alreadyAccepted
	}
	if err = fresh.Accept(cmd.CourierID(), now); err != nil {
		return err
	}
	return alreadyAccepted
}

// CompleteAssignmentCommandHandler closes an accepted assignment and marks
// its order delivered in the same transaction.
type CompleteAssignmentCommandHandler struct {
	uowFactory AssignmentUoWFactory
	runner     *retry.Runner
}

// NewCompleteAssignmentCommandHandler creates the handler a courier calls on
// hand-over.
//
// Example:
//
//	handler := NewCompleteAssignmentCommandHandler(uowFactory, runner)
//	cmd, _ := NewCompleteAssignmentCommand(assignmentID)
//	a, err := handler.Handle(ctx, cmd)
func NewCompleteAssignmentCommandHandler(uowFactory AssignmentUoWFactory, runner *retry.Runner) CompleteAssignmentCommandHandler {
	return CompleteAssignmentCommandHandler{uowFactory: uowFactory, runner: runner}
}

func (h *CompleteAssignmentCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteAssignmentCommand,
) (*assignment.DeliveryAssignment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return retry.Value(ctx, h.runner, "complete assignment", func(ctx context.Context) (*assignment.DeliveryAssignment, error) {
		return h.complete(ctx, cmd)
	})
}

func (h *CompleteAssignmentCommandHandler) complete(
	ctx context.Context,
	cmd CompleteAssignmentCommand,
) (*assignment.DeliveryAssignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()
	a, err := assignmentRepo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return nil, err
	}

	if err = a.Complete(); err != nil {
		return nil, err
	}

	if err = assignmentRepo.Transition(ctx, a, assignment.Accepted); err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, a.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	if err = o.ChangeStatus(order.Delivered); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, from); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// ExpireAssignmentsCommandHandler moves stale broadcasts to expired. An
// assignment accepted in the meantime is skipped.
type ExpireAssignmentsCommandHandler struct {
	uowFactory AssignmentUoWFactory
	expired    counter
}

func NewExpireAssignmentsCommandHandler(uowFactory AssignmentUoWFactory, expired counter) ExpireAssignmentsCommandHandler {
	return ExpireAssignmentsCommandHandler{uowFactory: uowFactory, expired: expired}
}

// Handle returns the number of assignments expired.
func (h *ExpireAssignmentsCommandHandler) Handle(ctx context.Context, cmd ExpireAssignmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AssignmentRepository()
	stale, err := repo.ListStaleBroadcasted(ctx, cmd.Cutoff(), cmd.Limit())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, a := range stale {
		if err = a.Expire(); err != nil {
			return 0, err
		}
		err = repo.Transition(ctx, a, assignment.Broadcasted)
		if errors.Is(err, errs.ErrStateIsStale) {
			continue
		}
		if err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if h.expired != nil {
		for range expired {
			h.expired.Inc()
		}
	}
	return expired, nil
}
