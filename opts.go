package changekit

import "github.com/autom8ter/changekit/internal/safe"

// StoreOpt is an option for configuring a store
type StoreOpt func(s *defaultStore)

// WithLogger overrides the store's logger
func WithLogger(logger Logger) StoreOpt {
	return func(s *defaultStore) {
		s.logger = logger
	}
}

// WithOnPersist adds hooks that execute as commands are staged against each
// collection's primary index
func WithOnPersist(persistHooks map[string][]OnPersist) StoreOpt {
	return func(s *defaultStore) {
		s.persistHooks = safe.NewMap(persistHooks)
	}
}

// WithOnCommit adds hooks that execute when transactions commit
func WithOnCommit(onCommit ...OnCommit) StoreOpt {
	return func(s *defaultStore) {
		s.onCommit = append(s.onCommit, onCommit...)
	}
}

// WithOnRollback adds hooks that execute when transactions roll back
func WithOnRollback(onRollback ...OnRollback) StoreOpt {
	return func(s *defaultStore) {
		s.onRollback = append(s.onRollback, onRollback...)
	}
}
