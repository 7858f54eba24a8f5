package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/store"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <group> <vertex> [properties-json]",
	Short: "Put an entity",
	Long: `Put an entity into the graph store under the given group and
vertex identity. properties-json, if given, is a JSON object of
property values.

Example:
  freyja put person alice '{"name":"Alice","age":30}'`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		group, vertex := args[0], args[1]

		gs, ok := cmd.Context().Value(storeContextKey).(*store.GraphStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}
		defer gs.Close()

		var props map[string]interface{}
		if len(args) == 3 {
			if err := json.Unmarshal([]byte(args[2]), &props); err != nil {
				fmt.Printf("Error parsing properties JSON: %v\n", err)
				return
			}
		}

		entity := element.Entity{
			Group:      group,
			Vertex:     vertex,
			Properties: element.Properties(gs.Schema().CoerceJSONProperties(group, props)),
		}

		if err := gs.Put(entity); err != nil {
			fmt.Printf("Error putting entity: %v\n", err)
			return
		}

		fmt.Printf("Successfully put entity %s/%s\n", group, vertex)
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
