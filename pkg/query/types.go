package query

import (
	"context"
	"fmt"

	"github.com/vertexkv/vertexkv/pkg/element"
)

// FieldQuery represents a single field-based query condition.
type FieldQuery struct {
	Field    string      // Field name to query (e.g., "age", "name")
	Operator string      // Comparison operator: "=", ">", "<", ">=", "<="
	Value    interface{} // Value to compare against
}

// Validate checks if the query is properly formed.
func (q *FieldQuery) Validate() error {
	if q.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if q.Operator == "" {
		return fmt.Errorf("operator cannot be empty")
	}
	validOps := map[string]bool{
		"=": true, ">": true, "<": true, ">=": true, "<=": true,
	}
	if !validOps[q.Operator] {
		return fmt.Errorf("invalid operator: %s", q.Operator)
	}
	return nil
}

// QueryResult is a single matching row: the primary row key a
// secondary index pointed at, and either the element decoded from it
// or the error hit while fetching/decoding it.
type QueryResult struct {
	PrimaryKey []byte
	Element    element.Element
	Err        error
}

// QueryIterator provides streaming access to query results.
type QueryIterator interface {
	Next() bool
	Result() QueryResult
	Close() error
}

// QueryEngine handles query execution against a graph store's
// secondary indexes.
type QueryEngine interface {
	ExecuteQuery(ctx context.Context, query FieldQuery) (QueryIterator, error)
	ExecuteRangeQuery(ctx context.Context, startQuery, endQuery FieldQuery) (QueryIterator, error)
}
