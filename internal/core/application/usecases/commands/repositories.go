// Package commands contains the operations that change system state: order
// checkout and status changes, the delivery assignment lifecycle, courier
// registration and the courier location channel events.
//
// Every handler follows the same shape: validate the command, open a unit of
// work, load aggregates, let them decide, persist, commit.
package commands

import (
	"context"

	"grocery/internal/core/ports"
)

// Unit of Work interfaces scope each handler to the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	GeoIndexFactory interface {
		GeoIndex() ports.GeoIndex
	}

	// OrderUoW is used by commands that only touch orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW is used by courier registration and the location channel.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// AssignmentUoW is used by the assignment lifecycle: accept, complete, expire.
	AssignmentUoW interface {
		TxManager
		AssignmentRepoFactory
		OrderRepoFactory
	}

	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// MatchUoW serves read-only matcher lookups outside any transaction.
	MatchUoW interface {
		GeoIndexFactory
		AssignmentRepoFactory
	}

	MatchUoWFactory interface {
		Create() MatchUoW
	}

	// UoW spans orders and assignments for the order status transition.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   assignmentRepo := uow.AssignmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
