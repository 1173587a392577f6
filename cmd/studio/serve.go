package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	httpadapter "github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/http"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow engine HTTP server",
	Long:  `Starts the engine in server mode, exposing run controls over a JSON API plus an SSE event stream and Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		workers, _ := cmd.Flags().GetInt("workers")
		servers, _ := cmd.Flags().GetStringArray("server")
		level, _ := cmd.Flags().GetString("log-level")

		if err := runServe(port, workers, servers, level); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("workers", 1, "Concurrent node dispatch limit per run")
	serveCmd.Flags().StringArray("server", nil, "MCP server as id=command [args...] or id=url (repeatable)")
}

func runServe(port string, workers int, servers []string, level string) error {
	logger := logging.New(logging.ParseLevel(level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	invoker, catalog, closeServers, err := buildInvoker(ctx, servers, logger)
	if err != nil {
		return err
	}
	defer closeServers()

	metrics := observability.NewMetrics()

	eng := studio.New(
		studio.WithLogger(logger),
		studio.WithWorkers(workers),
		studio.WithInvoker(invoker),
		studio.WithCatalog(catalog),
		studio.WithStore(metrics.WrapStore(memory.NewStore())),
	)

	eng.Subscribe("metrics", metrics.Listener())
	defer eng.Unsubscribe("metrics")

	api := httpadapter.NewServer(eng.Manager(), eng.Broker(),
		httpadapter.WithLogger(logger),
		httpadapter.WithRunConfig(eng.RunConfig()),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", api.Handler())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("Starting mcp-studio server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err

	case <-ctx.Done():
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		fmt.Println("Server stopped gracefully")
		return nil
	}
}
