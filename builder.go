package changekit

// QueryBuilder composes a Query through chainable clause methods
type QueryBuilder struct {
	query *Query
}

// NewQueryBuilder returns an empty QueryBuilder
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{query: &Query{}}
}

// Query returns the built query - an empty select defaults to selecting
// every field
func (q *QueryBuilder) Query() Query {
	if len(q.query.Select) == 0 {
		q.query.Select = []Select{{Field: SelectAllField}}
	}
	return *q.query
}

// Select appends the named fields to the select clause
func (q *QueryBuilder) Select(fields ...string) *QueryBuilder {
	for _, field := range fields {
		q.query.Select = append(q.query.Select, Select{Field: field})
	}
	return q
}

// Where appends where clauses
func (q *QueryBuilder) Where(where ...Where) *QueryBuilder {
	q.query.Where = append(q.query.Where, where...)
	return q
}

// OrderBy appends order by clauses
func (q *QueryBuilder) OrderBy(ob ...OrderBy) *QueryBuilder {
	q.query.OrderBy = append(q.query.OrderBy, ob...)
	return q
}

// Limit caps the number of records a result page holds
func (q *QueryBuilder) Limit(limit int) *QueryBuilder {
	q.query.Limit = limit
	return q
}

// Page selects the zero indexed result page
func (q *QueryBuilder) Page(page int) *QueryBuilder {
	q.query.Page = page
	return q
}
