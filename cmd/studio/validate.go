package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow-file>",
	Short: "Check a workflow graph for consistency",
	Long:  `Compiles the workflow definition and reports malformed edges, missing start nodes, dangling end nodes and cycles.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	nodes, edges, err := schema.Compile(def)
	if err != nil {
		return err
	}
	g, err := graph.Build(nodes, edges)
	if err != nil {
		return err
	}
	return g.Validate()
}
