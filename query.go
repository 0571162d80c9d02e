package changekit

import (
	"context"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/util"
	"github.com/samber/lo"
)

// SelectAllField selects every field of a record
const SelectAllField = "*"

// Select is a field to return in a query's result set
type Select struct {
	// Field is the field to select
	Field string `json:"field" validate:"required"`
}

// OrderByDirection indicates whether results are sorted ascending or
// descending
type OrderByDirection string

const (
	// OrderByDirectionAsc indicates ascending order
	OrderByDirectionAsc OrderByDirection = "asc"
	// OrderByDirectionDesc indicates descending order
	OrderByDirectionDesc OrderByDirection = "desc"
)

// OrderBy orders the result set by a given field in a given direction
type OrderBy struct {
	// Field is the field to sort on
	Field string `json:"field" validate:"required"`
	// Direction is the sort direction
	Direction OrderByDirection `json:"direction" validate:"required,oneof='desc' 'asc'"`
}

// Query is a query against a collection
type Query struct {
	// Select is the list of fields to return
	Select []Select `json:"select" validate:"required,min=1"`
	// Where filters the result set
	Where []Where `json:"where,omitempty" validate:"dive"`
	// OrderBy orders the result set
	OrderBy []OrderBy `json:"order_by,omitempty" validate:"dive"`
	// Page is the page index to return when a limit is set
	Page int `json:"page" validate:"min=0"`
	// Limit caps the number of results per page
	Limit int `json:"limit,omitempty" validate:"min=0"`
}

// Validate checks the query's shape
func (q Query) Validate(ctx context.Context) error {
	return errors.Wrap(util.ValidateStruct(&q), errors.Validation, "invalid query")
}

func (q Query) isSelectAll() bool {
	return lo.ContainsBy(q.Select, func(s Select) bool {
		return s.Field == SelectAllField
	})
}

// ForEachFunc is a handler run against each record a scan visits - returning
// false stops the scan
type ForEachFunc func(record *Record) (bool, error)
