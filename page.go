package changekit

import (
	"time"
)

// Page is a page of records
type Page struct {
	// Documents are the records that make up the page
	Documents Records `json:"documents"`
	// Next page
	NextPage int `json:"next_page,omitempty"`
	// Record count
	Count int `json:"count"`
	// Stats are statistics collected while executing the query
	Stats PageStats `json:"stats"`
}

// PageStats are measurements taken while the page's query ran
type PageStats struct {
	// ExecutionTime is how long the query took
	ExecutionTime time.Duration `json:"execution_time,omitempty"`
}

// PageHandler handles a page of records during pagination. If the handler
// returns false, pagination will discontinue
type PageHandler func(page Page) bool
