package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <group> <vertex>",
	Short: "Get an entity by group and vertex identity",
	Long: `Get an entity from the graph store by its group and vertex identity.

Example:
  freyja get person alice`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, vertex := args[0], args[1]

		gs, ok := cmd.Context().Value(storeContextKey).(*store.GraphStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}
		defer gs.Close()

		entity, err := gs.GetEntity(group, vertex)
		if err != nil {
			fmt.Printf("Error getting entity: %v\n", err)
			return
		}

		out, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			fmt.Printf("Error formatting entity: %v\n", err)
			return
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
