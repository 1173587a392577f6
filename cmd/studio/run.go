package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/presentation/tui"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/xjson"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workflow-file>",
	Short: "Execute a workflow graph",
	Long:  `Compiles the workflow definition and runs it to completion, streaming node events as they happen.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputJSON, _ := cmd.Flags().GetString("input")
		workers, _ := cmd.Flags().GetInt("workers")
		jsonMode, _ := cmd.Flags().GetBool("json")
		servers, _ := cmd.Flags().GetStringArray("server")
		level, _ := cmd.Flags().GetString("log-level")

		if err := runWorkflow(args[0], inputJSON, workers, jsonMode, servers, level); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "Initial input as a JSON object")
	runCmd.Flags().Int("workers", 1, "Concurrent node dispatch limit")
	runCmd.Flags().Bool("json", false, "Emit events as NDJSON instead of human-readable lines")
	runCmd.Flags().StringArray("server", nil, "MCP server as id=command [args...] or id=url (repeatable)")
}

func runWorkflow(path, inputJSON string, workers int, jsonMode bool, servers []string, level string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}

	var input map[string]any
	if inputJSON != "" {
		if err := xjson.Unmarshal([]byte(inputJSON), &input); err != nil {
			return fmt.Errorf("invalid --input JSON: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(logging.ParseLevel(level))

	opts := []studio.Option{
		studio.WithLogger(logger),
		studio.WithWorkers(workers),
		studio.WithStore(memory.NewStore()),
	}

	invoker, catalog, closeServers, err := buildInvoker(ctx, servers, logger)
	if err != nil {
		return err
	}
	defer closeServers()
	opts = append(opts, studio.WithInvoker(invoker), studio.WithCatalog(catalog))

	eng := studio.New(opts...)

	if !jsonMode {
		tui.PrintBanner(studio.Version)
	}

	eng.Subscribe("cli", func(evt domain.Event) {
		if jsonMode {
			if data, err := xjson.Marshal(evt); err == nil {
				fmt.Println(string(data))
			}
			return
		}
		switch evt.Type {
		case domain.EventNodeStarted:
			fmt.Printf("▶ %s\n", evt.NodeID)
		case domain.EventNodeCompleted:
			fmt.Printf("✔ %s\n", evt.NodeID)
		case domain.EventNodeFailed:
			fmt.Printf("✘ %s: %v\n", evt.NodeID, evt.Payload)
		}
	})
	defer eng.Unsubscribe("cli")

	id, err := eng.StartDefinition(ctx, def, input)
	if err != nil {
		return err
	}

	// Ctrl-C stops the run; the partial record still prints below.
	go func() {
		<-ctx.Done()
		eng.Stop(id)
	}()

	if err := eng.Wait(context.Background(), id); err != nil {
		return err
	}

	exec, err := eng.Execution(context.Background(), id)
	if err != nil {
		return err
	}

	if jsonMode {
		data, err := xjson.MarshalIndent(exec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printSummary(exec)
	if exec.Status != domain.StatusCompleted {
		return fmt.Errorf("run finished with status %s", exec.Status)
	}
	return nil
}

// printSummary renders the final execution record as a markdown table.
func printSummary(exec *domain.Execution) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", exec.ID)
	fmt.Fprintf(&sb, "**Status:** %s\n\n", exec.Status)
	if exec.Error != "" {
		fmt.Fprintf(&sb, "**Error:** %s\n\n", exec.Error)
	}

	sb.WriteString("| Node | Status | Duration |\n|---|---|---|\n")
	ids := make([]string, 0, len(exec.Nodes))
	for id := range exec.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return exec.Nodes[ids[i]].StartedAt.Before(exec.Nodes[ids[j]].StartedAt)
	})
	for _, id := range ids {
		ne := exec.Nodes[id]
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", id, ne.Status, ne.Duration.Round(time.Millisecond))
	}
	if len(exec.Unreached) > 0 {
		fmt.Fprintf(&sb, "\nUnreached nodes: %s\n", strings.Join(exec.Unreached, ", "))
	}

	render := tui.NewRenderer()
	out, err := render(sb.String())
	if err != nil {
		out = sb.String()
	}
	fmt.Print(out)
}
