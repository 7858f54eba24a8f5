/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/api"
	"github.com/vertexkv/vertexkv/pkg/config"
	"github.com/vertexkv/vertexkv/pkg/index"
	"github.com/vertexkv/vertexkv/pkg/query"
	"github.com/vertexkv/vertexkv/pkg/schema"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start the server",
	Long: `Bootstrap VertexKV by creating configuration and a starter schema
if they don't exist, then start the REST API server. This is the
recommended way to get VertexKV running from a clean data directory.

Examples:
  freyja up
  freyja up --data-dir ./mydata --port 9000
  freyja up --config ./custom-config.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// up bootstraps its own schema and store, so it must not run the
		// root command's PersistentPreRunE, which requires both to
		// already exist.
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		configPath, _ := cmd.Flags().GetString("config")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg, err := loadOrBootstrapConfig(cmd, configPath, dataDir)
		if err != nil {
			cmd.Printf("Error preparing config: %v\n", err)
			os.Exit(1)
		}

		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if port != 8080 {
			cfg.Port = port
		}
		if bind != "127.0.0.1" {
			cfg.Bind = bind
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}

		if _, err := bootstrapSchemaFile(cfg.SchemaPath, false); err != nil {
			cmd.Printf("Error preparing schema: %v\n", err)
			os.Exit(1)
		}

		schemaBytes, err := os.ReadFile(cfg.SchemaPath)
		if err != nil {
			cmd.Printf("Error reading schema: %v\n", err)
			os.Exit(1)
		}
		s, err := schema.Parse(schemaBytes)
		if err != nil {
			cmd.Printf("Error parsing schema: %v\n", err)
			os.Exit(1)
		}

		gs, err := store.OpenGraphStore(s, store.GraphStoreConfig{DataDir: cfg.DataDir})
		if err != nil {
			cmd.Printf("Error opening graph store: %v\n", err)
			os.Exit(1)
		}

		if container == nil {
			cmd.Printf("Error: dependency container not initialized\n")
			os.Exit(1)
		}

		indexManager := index.NewIndexManager(secondaryIndexOrder)
		queryEngine := query.NewGraphQueryEngine(indexManager, gs)

		cmd.Printf("Starting server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)

		serverStarter := container.GetServerFactory().CreateServerStarter()
		serverConfig := api.ServerConfig{Port: cfg.Port, APIKey: cfg.APIKey, DataDir: cfg.DataDir}
		if err := serverStarter.StartServer(gs, queryEngine, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().StringP("data-dir", "d", "./data", "Data directory for the store")
	upCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	upCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	upCmd.Flags().String("api-key", "", "API key for authentication")
	upCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
}

// loadOrBootstrapConfig loads configPath if it exists, otherwise
// bootstraps a fresh configuration pointed at dataDir.
func loadOrBootstrapConfig(cmd *cobra.Command, configPath, dataDir string) (*config.Config, error) {
	if config.ConfigExists(configPath) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cmd.Printf("Loaded existing configuration from %s\n", configPath)
		return cfg, nil
	}

	cmd.Printf("First run detected. Bootstrapping configuration...\n")
	cfg, err := config.BootstrapConfig(configPath, dataDir, "")
	if err != nil {
		return nil, fmt.Errorf("bootstrapping config: %w", err)
	}
	cmd.Printf("Configuration created at %s\n", configPath)
	return cfg, nil
}
