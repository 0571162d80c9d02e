package changekit

import "context"

// OnPersist is a hook function triggered whenever a command is staged against
// the primary index
type OnPersist struct {
	// Name identifies the hook in errors and logs
	Name string `json:"name" validate:"required"`
	// Before indicates whether the hook runs before or after the command is
	// applied to the primary index
	Before bool `json:"before"`
	// Func runs per staged command - an error aborts the command
	Func func(ctx context.Context, tx Tx, command *Command) error `json:"-" validate:"required"`
}

// OnCommit is a hook function triggered whenever a transaction commits
type OnCommit struct {
	// Name identifies the hook in errors and logs
	Name string `json:"name" validate:"required"`
	// Before indicates whether the hook runs before or after the commit
	Before bool `json:"before"`
	// Func runs per commit - an error from a before hook aborts the commit
	Func func(ctx context.Context, tx Tx) error `json:"-" validate:"required"`
}

// OnRollback is a hook function triggered whenever a transaction rolls back
type OnRollback struct {
	// Name identifies the hook in errors and logs
	Name string `json:"name" validate:"required"`
	// Func runs per rollback
	Func func(ctx context.Context, tx Tx) `json:"-" validate:"required"`
}
