package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <group> <vertex>",
	Short: "Delete an entity",
	Long: `Delete an entity from the graph store by its group and vertex identity.

Example:
  freyja delete person alice`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, vertex := args[0], args[1]

		gs, ok := cmd.Context().Value(storeContextKey).(*store.GraphStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}
		defer gs.Close()

		if err := gs.DeleteEntity(group, vertex); err != nil {
			fmt.Printf("Error deleting entity: %v\n", err)
			return
		}

		fmt.Printf("Successfully deleted entity %s/%s\n", group, vertex)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
