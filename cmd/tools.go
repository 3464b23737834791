package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/redmcp/handlers"
	"github.com/redmcp/mcp"
)

var (
	toolsJSON bool

	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "list the available tools without contacting the tracker",
		RunE:  runToolsCmd,
	}
)

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print each tool's JSON Schema and example request")
	rootCmd.AddCommand(toolsCmd)
}

func runToolsCmd(cmd *cobra.Command, args []string) error {
	reg, err := toolRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if toolsJSON {
		docs := make([]map[string]any, 0, reg.Len())
		for _, name := range reg.ListNames() {
			def, _ := reg.Lookup(name)
			docs = append(docs, map[string]any{
				"name":          def.Name,
				"description":   def.Description,
				"input_schema":  def.Params.JSONSchema(),
				"example_usage": def.Example(),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range reg.ListNames() {
		def, _ := reg.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\n", def.Name, def.Description)
	}
	return w.Flush()
}

// toolRegistry builds the full tool table with no remote client behind it.
// Only the schemas are used.
func toolRegistry() (*mcp.Registry, error) {
	reg := mcp.NewRegistry()
	if err := mcp.RegisterIntrospection(reg); err != nil {
		return nil, err
	}
	if err := handlers.Register(reg, nil); err != nil {
		return nil, err
	}
	reg.Seal()
	return reg, nil
}
