/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/config"
)

// defaultSchemaTemplate is written by init when no schema file exists
// yet, as a minimal starting point a user edits to their own domain.
const defaultSchemaTemplate = `vertex:
  serialiser: string
groups:
  entity:
    properties: [name]
    groupBy: []
    types:
      name: string
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file and a starter schema",
	Long: `Create a configuration file and, if one doesn't already exist, a
starter schema file. Run this once before 'freyja serve' or
'freyja up' against a fresh data directory.

Examples:
  freyja init
  freyja init --data-dir=./data --schema=./schema.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init creates the schema file, so it must not require one to
		// already exist the way the root command's PersistentPreRunE does.
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		schemaPath, _ := cmd.Flags().GetString("schema")
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		if _, err := config.BootstrapConfig(configPath, dataDir, schemaPath); err != nil {
			cmd.Printf("Error bootstrapping config: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("Created configuration at %s\n", configPath)

		created, err := bootstrapSchemaFile(schemaPath, force)
		if err != nil {
			cmd.Printf("Error writing schema file: %v\n", err)
			os.Exit(1)
		}
		if created {
			cmd.Printf("Created starter schema at %s\n", schemaPath)
		} else {
			cmd.Printf("Schema already exists at %s, leaving it in place\n", schemaPath)
		}

		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  freyja serve --api-key=your-key --data-dir=%s --schema=%s\n", dataDir, schemaPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration or schema file")
}

// bootstrapSchemaFile writes defaultSchemaTemplate to schemaPath unless
// a file already exists there and force is false. It reports whether
// it wrote the file.
func bootstrapSchemaFile(schemaPath string, force bool) (bool, error) {
	if _, err := os.Stat(schemaPath); err == nil && !force {
		return false, nil
	}
	if err := os.WriteFile(schemaPath, []byte(defaultSchemaTemplate), 0644); err != nil {
		return false, err
	}
	return true, nil
}
