/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/api"
	"github.com/vertexkv/vertexkv/pkg/index"
	"github.com/vertexkv/vertexkv/pkg/query"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// secondaryIndexOrder is the B+tree order each property's secondary
// index is built with.
const secondaryIndexOrder = 32

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server over the graph store opened by the
root command, with entity/edge storage, property queries, and
diagnostics over HTTP.

Example:
  freyja serve --api-key=mysecretkey --port=8080`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		apiKey, _ := cmd.Flags().GetString("api-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if apiKey == "" {
			cmd.Println("Error: --api-key is required")
			return
		}

		gs, ok := cmd.Context().Value(storeContextKey).(*store.GraphStore)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		if container == nil {
			cmd.Println("Error: dependency container not initialized")
			os.Exit(1)
		}

		indexManager := index.NewIndexManager(secondaryIndexOrder)
		queryEngine := query.NewGraphQueryEngine(indexManager, gs)

		config := api.ServerConfig{
			Port:    port,
			APIKey:  apiKey,
			DataDir: dataDir,
		}

		serverStarter := container.GetServerFactory().CreateServerStarter()
		if err := serverStarter.StartServer(gs, queryEngine, config); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("api-key", "", "API key for authentication (required)")
	serveCmd.MarkFlagRequired("api-key")
}
