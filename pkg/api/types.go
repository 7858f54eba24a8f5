package api

import "time"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	APIKey  string
	DataDir string
}

// EntityRequest is the wire shape for creating or overwriting an
// entity. Vertex and Properties are decoded as plain JSON values, so
// numeric properties arrive as float64 unless the caller's JSON
// matches what the schema's serialiser for that property expects.
type EntityRequest struct {
	Group      string                 `json:"group"`
	Vertex     interface{}            `json:"vertex"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// EdgeRequest is the wire shape for creating or overwriting an edge.
type EdgeRequest struct {
	Group       string                 `json:"group"`
	Source      interface{}            `json:"source"`
	Destination interface{}            `json:"destination"`
	Directed    bool                   `json:"directed"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

// FieldQueryRequest is the wire shape for a single field-value query.
type FieldQueryRequest struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// RangeQueryRequest is the wire shape for a range query between two
// conditions on the same field.
type RangeQueryRequest struct {
	Field string      `json:"field"`
	Start interface{} `json:"start"`
	End   interface{} `json:"end"`
}

// ElementResponse is how an entity or edge is rendered back to a
// client: the decoded element's shape plus the primary row key a
// query result pointed at, when one is available.
type ElementResponse struct {
	PrimaryKey  string                 `json:"primary_key,omitempty"`
	Group       string                 `json:"group"`
	Vertex      interface{}            `json:"vertex,omitempty"`
	Source      interface{}            `json:"source,omitempty"`
	Destination interface{}            `json:"destination,omitempty"`
	Directed    *bool                  `json:"directed,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	FetchedAt   time.Time              `json:"fetched_at,omitempty"`
}
