package api

import (
	"sync"
	"testing"

	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/index"
	"github.com/vertexkv/vertexkv/pkg/query"
	"github.com/vertexkv/vertexkv/pkg/schema"
	"github.com/vertexkv/vertexkv/pkg/store"
)

const testSchemaYAML = `
vertex:
  serialiser: string
groups:
  person:
    properties: [name, age]
    groupBy: []
    types:
      name: string
      age: rawint32
  knows:
    properties: [since]
    groupBy: []
    types:
      since: rawint32
`

// testMetrics builds the package's test Metrics on first use.
var testMetrics = sync.OnceValue(NewMetrics)

// setupTestServer creates a test server with a temporary GraphStore
func setupTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	s, err := schema.Parse([]byte(testSchemaYAML))
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}

	gs, err := store.OpenGraphStore(s, store.GraphStoreConfig{DataDir: t.TempDir(), Clock: element.FixedClock(0)})
	if err != nil {
		t.Fatalf("OpenGraphStore: %v", err)
	}

	indexManager := index.NewIndexManager(4)
	qe := query.NewGraphQueryEngine(indexManager, gs)

	// One metrics instance shared by every test: NewMetrics registers
	// on the default Prometheus registry, and a second registration
	// of the same metrics would panic.
	metrics := testMetrics()
	server := NewServer(gs, qe, ServerConfig{Port: 0, APIKey: "test-key"}, metrics)

	cleanup := func() { gs.Close() }
	return server, cleanup
}

func TestNewServer(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	if server == nil {
		t.Fatal("expected server to be created")
	}
	if server.config.APIKey != "test-key" {
		t.Errorf("expected API key 'test-key', got %q", server.config.APIKey)
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected ServerConfig
	}{
		{
			name:     "valid config",
			config:   ServerConfig{Port: 8080, APIKey: "secret-key"},
			expected: ServerConfig{Port: 8080, APIKey: "secret-key"},
		},
		{
			name:     "empty config",
			config:   ServerConfig{},
			expected: ServerConfig{Port: 0, APIKey: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.config.Port != tt.expected.Port {
				t.Errorf("expected port %d, got %d", tt.expected.Port, tt.config.Port)
			}
			if tt.config.APIKey != tt.expected.APIKey {
				t.Errorf("expected API key %q, got %q", tt.expected.APIKey, tt.config.APIKey)
			}
		})
	}
}

func TestServer_PutAndGetEntity(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	entity := element.Entity{Group: "person", Vertex: "alice", Properties: element.Properties{"name": "Alice", "age": int32(30)}}
	if err := server.store.Put(entity); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := server.store.GetEntity("person", "alice")
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if got.Properties["name"] != "Alice" {
		t.Errorf("expected name Alice, got %v", got.Properties["name"])
	}
}
