package changekit

// WhereOp is an operator used to compare a value to a record's field value in
// a where clause
type WhereOp string

const (
	// WhereOpEq matches on equality
	WhereOpEq WhereOp = "eq"
	// WhereOpNeq matches on inequality
	WhereOpNeq WhereOp = "neq"
	// WhereOpGt matches on greater than
	WhereOpGt WhereOp = "gt"
	// WhereOpGte matches on greater than or equal to
	WhereOpGte WhereOp = "gte"
	// WhereOpLt matches on less than
	WhereOpLt WhereOp = "lt"
	// WhereOpLte matches on less than or equal to
	WhereOpLte WhereOp = "lte"
	// WhereOpIn matches on an element being contained in a list
	WhereOpIn WhereOp = "in"
	// WhereOpContains matches on text containing a substring
	WhereOpContains WhereOp = "contains"
)

// Where is a field level filter for queries
type Where struct {
	// Field is the field to compare - dot notation addresses nested object fields
	Field string `json:"field" validate:"required"`
	// Op is the operator used to compare the field against the value
	Op WhereOp `json:"op" validate:"required,oneof='eq' 'neq' 'gt' 'gte' 'lt' 'lte' 'in' 'contains'"`
	// Value is the value to compare against the record's field value
	Value any `json:"value" validate:"required"`
}
