package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "mcp-studio is a workflow graph execution engine",
	Long:  `mcp-studio runs workflow graphs of typed nodes (tools, conditionals, loops, aggregators) against local tools or MCP servers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

// loadDefinition reads a workflow file, parsing YAML or JSON by extension.
func loadDefinition(path string) (*schema.GraphDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schema.ParseYAML(data)
	default:
		return schema.ParseJSON(data)
	}
}
