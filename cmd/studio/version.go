package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of studio",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studio version %s\n", strings.TrimSpace(studio.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
