package query

import (
	"context"
	"fmt"

	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/index"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// GraphQueryEngine answers field-value queries against a GraphStore by
// consulting the field's SecondaryIndex for matching row keys, then
// fetching and decoding each hit back into an element.Element.
type GraphQueryEngine struct {
	indexManager *index.IndexManager
	store        *store.GraphStore
}

// NewGraphQueryEngine creates a query engine over gs, using
// indexManager to hold one SecondaryIndex per queried field.
func NewGraphQueryEngine(indexManager *index.IndexManager, gs *store.GraphStore) *GraphQueryEngine {
	return &GraphQueryEngine{indexManager: indexManager, store: gs}
}

// IndexElement records elem's value for field in that field's
// secondary index, keyed by elem's primary row key. Callers index an
// element's fields right after a successful GraphStore.Put so the
// index stays in sync with the store.
func (qe *GraphQueryEngine) IndexElement(field string, elem element.Element) error {
	props, rowKey, err := qe.store.IndexableProperties(elem)
	if err != nil {
		return err
	}
	value, ok := props[field]
	if !ok {
		return nil
	}
	return qe.indexManager.GetOrCreateIndex(field).Insert(value, rowKey)
}

// ExecuteQuery executes a single field query.
func (qe *GraphQueryEngine) ExecuteQuery(ctx context.Context, query FieldQuery) (QueryIterator, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	idx := qe.indexManager.GetOrCreateIndex(query.Field)

	var keys [][]byte
	var err error
	switch query.Operator {
	case "=":
		keys, err = idx.Search(query.Value)
	case ">":
		keys, err = idx.SearchGreaterThan(query.Value, false)
	case ">=":
		keys, err = idx.SearchGreaterThan(query.Value, true)
	case "<":
		keys, err = idx.SearchLessThan(query.Value, false)
	case "<=":
		keys, err = idx.SearchLessThan(query.Value, true)
	default:
		return nil, fmt.Errorf("unsupported operator: %s", query.Operator)
	}
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	return qe.resultsFor(keys), nil
}

// ExecuteRangeQuery executes a range query between two conditions on
// the same field.
func (qe *GraphQueryEngine) ExecuteRangeQuery(ctx context.Context, startQuery, endQuery FieldQuery) (QueryIterator, error) {
	if err := startQuery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start query: %w", err)
	}
	if err := endQuery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid end query: %w", err)
	}
	if startQuery.Field != endQuery.Field {
		return nil, fmt.Errorf("range query fields must match: %s != %s", startQuery.Field, endQuery.Field)
	}

	idx := qe.indexManager.GetOrCreateIndex(startQuery.Field)
	keys, err := idx.SearchRange(startQuery.Value, endQuery.Value)
	if err != nil {
		return nil, fmt.Errorf("range search failed: %w", err)
	}

	return qe.resultsFor(keys), nil
}

// resultsFor fetches and decodes every row key an index search
// returned, in whatever order the index returned them.
func (qe *GraphQueryEngine) resultsFor(keys [][]byte) QueryIterator {
	results := make([]QueryResult, 0, len(keys))
	for _, key := range keys {
		elem, err := qe.store.GetByRowKey(key)
		if err != nil {
			results = append(results, QueryResult{PrimaryKey: key, Err: err})
			continue
		}
		results = append(results, QueryResult{PrimaryKey: key, Element: elem})
	}
	return &sliceIterator{results: results}
}

// sliceIterator implements QueryIterator over a pre-fetched slice.
type sliceIterator struct {
	results []QueryResult
	index   int
}

func (it *sliceIterator) Next() bool {
	if it.index < len(it.results) {
		it.index++
		return true
	}
	return false
}

func (it *sliceIterator) Result() QueryResult {
	if it.index > 0 && it.index <= len(it.results) {
		return it.results[it.index-1]
	}
	return QueryResult{}
}

func (it *sliceIterator) Close() error {
	return nil
}
