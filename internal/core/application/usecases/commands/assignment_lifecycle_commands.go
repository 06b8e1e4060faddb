package commands

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var (
	ErrAcceptAssignmentCommandIsNotConstructed = errors.New(
		"AcceptAssignmentCommand must be created via NewAcceptAssignmentCommand constructor",
	)
	ErrCompleteAssignmentCommandIsNotConstructed = errors.New(
		"CompleteAssignmentCommand must be created via NewCompleteAssignmentCommand constructor",
	)
	ErrExpireAssignmentsCommandIsNotConstructed = errors.New(
		"ExpireAssignmentsCommand must be created via NewExpireAssignmentsCommand constructor",
	)
)

// AcceptAssignmentCommand is a courier claiming a broadcast.
// Both ids are required; whether the courier was offered the job is decided
// by the handler against the stored assignment.
type AcceptAssignmentCommand struct {
	assignmentID kernel.UUID
	courierID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptAssignmentCommand(assignmentID, courierID kernel.UUID) (AcceptAssignmentCommand, error) {
	if err := errors.Join(assignmentID.Validate(), courierID.Validate()); err != nil {
		return AcceptAssignmentCommand{}, err
	}
	return AcceptAssignmentCommand{
		assignmentID: assignmentID,
		courierID:    courierID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrAcceptAssignmentCommandIsNotConstructed)
}

func (c AcceptAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

func (c AcceptAssignmentCommand) CourierID() kernel.UUID {
	return c.courierID
}

// CompleteAssignmentCommand closes an accepted assignment on delivery.
type CompleteAssignmentCommand struct {
	assignmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteAssignmentCommand(assignmentID kernel.UUID) (CompleteAssignmentCommand, error) {
	if err := assignmentID.Validate(); err != nil {
		return CompleteAssignmentCommand{}, err
	}
	return CompleteAssignmentCommand{assignmentID: assignmentID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrCompleteAssignmentCommandIsNotConstructed)
}

func (c CompleteAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// ExpireAssignmentsCommand retires broadcasts created before Cutoff that
// nobody accepted. Limit bounds one batch.
type ExpireAssignmentsCommand struct {
	cutoff time.Time
	limit  int

	guard guard.ConstructorGuard
}

func NewExpireAssignmentsCommand(cutoff time.Time, limit int) (ExpireAssignmentsCommand, error) {
	var cutoffErr, limitErr error
	if cutoff.IsZero() {
		cutoffErr = errs.NewValueIsRequiredError("cutoff")
	}
	if limit <= 0 {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	if err := errors.Join(cutoffErr, limitErr); err != nil {
		return ExpireAssignmentsCommand{}, err
	}
	return ExpireAssignmentsCommand{cutoff: cutoff, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrExpireAssignmentsCommandIsNotConstructed)
}

func (c ExpireAssignmentsCommand) Cutoff() time.Time {
	return c.cutoff
}

func (c ExpireAssignmentsCommand) Limit() int {
	return c.limit
}
