// Package api FreyjaDB REST API
//
// @title           FreyjaDB REST API
// @version         1.0.0
// @description     This is the REST API for FreyjaDB, a schema-driven graph storage engine.
// @host            localhost:9200
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"github.com/vertexkv/vertexkv/pkg/query"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// StartServer starts the HTTP server with all routes configured
func StartServer(gs *store.GraphStore, qe *query.GraphQueryEngine, config ServerConfig) error {
	// Set Swagger host with port
	if SwaggerInfo != nil {
		SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)
	}

	metrics := NewMetrics()
	server := NewServer(gs, qe, config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Entities
		r.Put("/entities", metrics.InstrumentHandler("PUT", "/api/v1/entities", server.handlePutEntity))
		r.Get("/entities/{group}/{vertex}", metrics.InstrumentHandler("GET", "/api/v1/entities/{group}/{vertex}", server.handleGetEntity))
		r.Get("/entities/{group}/{vertex}/edges", metrics.InstrumentHandler("GET", "/api/v1/entities/{group}/{vertex}/edges", server.handleEntityEdges))

		// Edges
		r.Put("/edges", metrics.InstrumentHandler("PUT", "/api/v1/edges", server.handlePutEdge))
		r.Get("/edges/{group}/{source}/{destination}", metrics.InstrumentHandler("GET", "/api/v1/edges/{group}/{source}/{destination}", server.handleGetEdge))

		// Queries
		r.Post("/query", metrics.InstrumentHandler("POST", "/api/v1/query", server.handleQuery))
		r.Post("/query/range", metrics.InstrumentHandler("POST", "/api/v1/query/range", server.handleRangeQuery))

		// Diagnostics
		r.Get("/explain", metrics.InstrumentHandler("GET", "/api/v1/explain", server.handleExplain))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/swagger/" || path == "/swagger/index.html" {
			w.Header().Set("Content-Type", "text/html")
			html := `<!DOCTYPE html>
<html>
<head>
	 <title>FreyjaDB API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`
			w.Write([]byte(html))
			return
		}

		if path == "/swagger/swagger.json" {
			doc, err := swag.ReadDoc("swagger")
			if err != nil {
				fmt.Printf("Error generating swagger doc: %v\n", err)
				http.Error(w, "Failed to generate Swagger documentation", 500)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(doc))
			return
		}

		if path == "/swagger/swagger.yaml" {
			doc, err := swag.ReadDoc("swagger")
			if err != nil {
				fmt.Printf("Error generating swagger doc: %v\n", err)
				http.Error(w, "Failed to generate Swagger documentation", 500)
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			w.Write([]byte(doc))
			return
		}

		http.NotFound(w, r)
	})

	addr := fmt.Sprintf(":%d", config.Port)
	fmt.Printf("Starting FreyjaDB REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://localhost:%d/metrics\n", config.Port)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}
