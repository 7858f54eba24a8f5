package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/query"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// Server holds the API server state
type Server struct {
	store       *store.GraphStore
	queryEngine *query.GraphQueryEngine
	config      ServerConfig
	metrics     *Metrics
}

// NewServer creates a new API server
func NewServer(gs *store.GraphStore, qe *query.GraphQueryEngine, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:       gs,
		queryEngine: qe,
		config:      config,
		metrics:     metrics,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handlePutEntity godoc
//
//	@Summary		Create or overwrite an entity
//	@Description	Store an entity and index its properties for querying
//	@Tags			entities
//	@Accept			json
//	@Produce		json
//	@Param			request	body		EntityRequest	true	"Entity"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/entities [put]
//	@Security		ApiKeyAuth
func (s *Server) handlePutEntity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req EntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Group == "" || req.Vertex == nil {
		sendError(w, "group and vertex are required", http.StatusBadRequest)
		return
	}

	entity := element.Entity{Group: req.Group, Vertex: req.Vertex, Properties: s.coerceProperties(req.Group, req.Properties)}
	if err := s.store.Put(entity); err != nil {
		s.metrics.RecordDBOperation("put_entity", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to put entity: %v", err), http.StatusInternalServerError)
		return
	}
	if err := s.indexElement(entity); err != nil {
		s.metrics.RecordDBOperation("put_entity", false, time.Since(start))
		sendError(w, fmt.Sprintf("Entity stored but indexing failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordDBOperation("put_entity", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "entity stored successfully"})
}

// handleGetEntity godoc
//
//	@Summary		Get an entity by vertex
//	@Description	Retrieve an entity by its group and vertex identity
//	@Tags			entities
//	@Produce		json
//	@Param			group	path		string	true	"Group"
//	@Param			vertex	path		string	true	"Vertex identity"
//	@Success		200		{object}	ElementResponse
//	@Failure		404		{object}	map[string]string
//	@Router			/entities/{group}/{vertex} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	group := chi.URLParam(r, "group")
	vertex := chi.URLParam(r, "vertex")

	entity, err := s.store.GetEntity(group, vertex)
	if err != nil {
		s.metrics.RecordDBOperation("get_entity", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to get entity: %v", err), http.StatusNotFound)
		return
	}

	s.metrics.RecordDBOperation("get_entity", true, time.Since(start))
	sendSuccess(w, entityResponse(entity))
}

// handleEntityEdges godoc
//
//	@Summary		List edges touching a vertex
//	@Description	Scan every edge of the given group keyed by this vertex
//	@Tags			entities
//	@Produce		json
//	@Param			group	path		string	true	"Edge group"
//	@Param			vertex	path		string	true	"Vertex identity"
//	@Success		200		{object}	map[string]interface{}
//	@Router			/entities/{group}/{vertex}/edges [get]
//	@Security		ApiKeyAuth
func (s *Server) handleEntityEdges(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	vertex := chi.URLParam(r, "vertex")

	edges, err := s.store.EdgesFrom(group, vertex)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list edges: %v", err), http.StatusInternalServerError)
		return
	}

	responses := make([]ElementResponse, 0, len(edges))
	for _, edge := range edges {
		responses = append(responses, edgeResponse(edge))
	}
	sendSuccess(w, map[string]interface{}{"edges": responses})
}

// handlePutEdge godoc
//
//	@Summary		Create or overwrite an edge
//	@Description	Store an edge and index its properties for querying
//	@Tags			edges
//	@Accept			json
//	@Produce		json
//	@Param			request	body		EdgeRequest	true	"Edge"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/edges [put]
//	@Security		ApiKeyAuth
func (s *Server) handlePutEdge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req EdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Group == "" || req.Source == nil || req.Destination == nil {
		sendError(w, "group, source, and destination are required", http.StatusBadRequest)
		return
	}

	edge := element.Edge{
		Group:       req.Group,
		Source:      req.Source,
		Destination: req.Destination,
		Directed:    req.Directed,
		Properties:  s.coerceProperties(req.Group, req.Properties),
	}
	if err := s.store.Put(edge); err != nil {
		s.metrics.RecordDBOperation("put_edge", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to put edge: %v", err), http.StatusInternalServerError)
		return
	}
	if err := s.indexElement(edge); err != nil {
		s.metrics.RecordDBOperation("put_edge", false, time.Since(start))
		sendError(w, fmt.Sprintf("Edge stored but indexing failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordDBOperation("put_edge", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "edge stored successfully"})
}

// handleGetEdge godoc
//
//	@Summary		Get an edge between two vertices
//	@Description	Retrieve an edge by group, source, and destination
//	@Tags			edges
//	@Produce		json
//	@Param			group		path		string	true	"Edge group"
//	@Param			source		path		string	true	"Source vertex"
//	@Param			destination	path		string	true	"Destination vertex"
//	@Param			directed	query		bool	false	"Whether the edge is directed"
//	@Success		200			{object}	ElementResponse
//	@Failure		404			{object}	map[string]string
//	@Router			/edges/{group}/{source}/{destination} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetEdge(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	source := chi.URLParam(r, "source")
	destination := chi.URLParam(r, "destination")
	directed := r.URL.Query().Get("directed") == "true"

	edge, err := s.store.GetEdge(group, source, destination, directed)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get edge: %v", err), http.StatusNotFound)
		return
	}

	sendSuccess(w, edgeResponse(edge))
}

// handleQuery godoc
//
//	@Summary		Query elements by a single field condition
//	@Description	Look up elements whose indexed field value matches the operator/value pair
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FieldQueryRequest	true	"Field query"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Router			/query [post]
//	@Security		ApiKeyAuth
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req FieldQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	it, err := s.queryEngine.ExecuteQuery(r.Context(), query.FieldQuery{Field: req.Field, Operator: req.Operator, Value: s.coerceFieldValue(req.Field, req.Value)})
	if err != nil {
		sendError(w, fmt.Sprintf("Query failed: %v", err), http.StatusBadRequest)
		return
	}
	s.sendQueryResults(w, it)
}

// handleRangeQuery godoc
//
//	@Summary		Query elements by a field range
//	@Description	Look up elements whose indexed field value falls within [start, end]
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RangeQueryRequest	true	"Range query"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Router			/query/range [post]
//	@Security		ApiKeyAuth
func (s *Server) handleRangeQuery(w http.ResponseWriter, r *http.Request) {
	var req RangeQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	it, err := s.queryEngine.ExecuteRangeQuery(r.Context(),
		query.FieldQuery{Field: req.Field, Operator: ">=", Value: s.coerceFieldValue(req.Field, req.Start)},
		query.FieldQuery{Field: req.Field, Operator: "<=", Value: s.coerceFieldValue(req.Field, req.End)},
	)
	if err != nil {
		sendError(w, fmt.Sprintf("Range query failed: %v", err), http.StatusBadRequest)
		return
	}
	s.sendQueryResults(w, it)
}

func (s *Server) sendQueryResults(w http.ResponseWriter, it query.QueryIterator) {
	defer it.Close()

	responses := make([]ElementResponse, 0)
	for it.Next() {
		result := it.Result()
		if result.Err != nil {
			sendError(w, fmt.Sprintf("Failed to fetch result: %v", result.Err), http.StatusInternalServerError)
			return
		}
		resp := elementResponse(result.Element)
		resp.PrimaryKey = string(result.PrimaryKey)
		responses = append(responses, resp)
	}

	sendSuccess(w, map[string]interface{}{"results": responses, "count": len(responses)})
}

// handleExplain godoc
//
//	@Summary		Get storage engine diagnostics
//	@Description	Get detailed information about the backing table's structure and performance
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/explain [get]
//	@Security		ApiKeyAuth
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.Explain(r.Context(), store.ExplainOptions{WithSamples: 10, WithMetrics: true})
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get explain data: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.UpdateDBStats(result.Global.TotalKeys, int64(result.Global.TotalSizeMB*1024*1024))
	sendSuccess(w, result)
}

// indexElement records every property of elem in that field's
// secondary index, so a subsequent handleQuery can find it.
func (s *Server) indexElement(elem element.Element) error {
	props, _, err := s.store.IndexableProperties(elem)
	if err != nil {
		return err
	}
	for field := range props {
		if err := s.queryEngine.IndexElement(field, elem); err != nil {
			return err
		}
	}
	return nil
}

// coerceProperties narrows JSON-decoded property values to the Go
// types each group's schema-declared serialiser expects, delegating to
// the Schema's own JSON coercion so the API and the CLI apply the
// identical rule.
func (s *Server) coerceProperties(group string, m map[string]interface{}) element.Properties {
	coerced := s.store.Schema().CoerceJSONProperties(group, m)
	if coerced == nil {
		return nil
	}
	return element.Properties(coerced)
}

// coerceFieldValue applies the same conversion to a query's comparison
// value, using whichever declared group happens to define this field
// first.
func (s *Server) coerceFieldValue(field string, v interface{}) interface{} {
	return s.store.Schema().CoerceJSONFieldValue(field, v)
}

func elementResponse(elem element.Element) ElementResponse {
	switch e := elem.(type) {
	case element.Entity:
		return entityResponse(e)
	case element.Edge:
		return edgeResponse(e)
	default:
		return ElementResponse{}
	}
}

func entityResponse(e element.Entity) ElementResponse {
	return ElementResponse{
		Group:      e.Group,
		Vertex:     e.Vertex,
		Properties: e.Properties,
		FetchedAt:  time.Now(),
	}
}

func edgeResponse(e element.Edge) ElementResponse {
	directed := e.Directed
	return ElementResponse{
		Group:       e.Group,
		Source:      e.Source,
		Destination: e.Destination,
		Directed:    &directed,
		Properties:  e.Properties,
		FetchedAt:   time.Now(),
	}
}
