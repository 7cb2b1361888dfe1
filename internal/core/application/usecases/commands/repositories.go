// Package commands contains the business operations that modify system
// state, following the Command pattern of the CQRS architecture. Commands
// validate themselves, handlers manage the transaction and orchestrate the
// domain services.
package commands

import (
	"context"

	"optiroute/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within
	// a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// UoW manages transactions across the order and courier aggregates.
	UoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
	}

	// UoWFactory creates new unit of work instances per command.
	UoWFactory interface {
		Create() UoW
	}
)
