package changekit

import (
	"context"
)

// Querier queries a collection
type Querier interface {
	// Query queries a collection of records - mutations staged ahead of the
	// query are visible to it
	Query(ctx context.Context, collection string, query Query) (Page, error)
}

// Collection stages mutations against a single collection
type Collection interface {
	// Add stages the creation of a new record
	Add(ctx context.Context, record *Record) error
	// Remove stages the removal of a record
	Remove(ctx context.Context, record *Record) error
}

// Context is the typed persistence context modifications are applied
// against. Mutations staged through it become durable only when the caller
// commits.
type Context interface {
	Querier
	// GetSchema returns the entity type registered for the collection - nil
	// when the collection is unknown
	GetSchema(ctx context.Context, collection string) *EntityType
	// Collection returns a staging handle for the collection
	Collection(collection string) (Collection, error)
	// Attach returns a tracked handle to an existing record - writes through
	// the handle are buffered and flushed as a single merge
	Attach(ctx context.Context, collection string, record *Record) (*Tracked, error)
	// Replace stages a full replacement of the record matching the given
	// record's primary key
	Replace(ctx context.Context, collection string, record *Record) error
}
