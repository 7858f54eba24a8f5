/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/schema"
	"github.com/vertexkv/vertexkv/pkg/store"
)

type contextKey string

const storeContextKey contextKey = "store"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "freyja",
	Short: "FreyjaDB - a schema-driven graph storage engine",
	Long: `FreyjaDB stores entities and edges under a declared schema and
persists them to a durable, ordered key-value table, with a secondary
index available for property queries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		schemaPath, _ := cmd.Flags().GetString("schema")

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}

		schemaBytes, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file (run 'freyja init' first): %w", err)
		}
		s, err := schema.Parse(schemaBytes)
		if err != nil {
			return fmt.Errorf("failed to parse schema: %w", err)
		}

		gs, err := store.OpenGraphStore(s, store.GraphStoreConfig{DataDir: dataDir})
		if err != nil {
			return fmt.Errorf("failed to open graph store: %w", err)
		}

		cmd.SetContext(context.WithValue(cmd.Context(), storeContextKey, gs))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
	rootCmd.PersistentFlags().String("schema", "./schema.yaml", "Path to the schema definition file")
}
