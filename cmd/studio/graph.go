package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	presentation "github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/presentation/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workflow-file>",
	Short: "Export the workflow graph visualization",
	Long:  `Compiles the workflow definition and outputs a Mermaid diagram (graph TD) representing the flow logic.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := loadDefinition(args[0])
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}
		nodes, edges, err := schema.Compile(def)
		if err != nil {
			fmt.Printf("Error compiling workflow: %v\n", err)
			os.Exit(1)
		}
		g, err := graph.Build(nodes, edges)
		if err != nil {
			fmt.Printf("Error building graph: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(presentation.GenerateMermaid(g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
