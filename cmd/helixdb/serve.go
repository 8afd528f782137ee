package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/helixdb/compiled"
	"github.com/cuemby/helixdb/pkg/gateway"
	"github.com/cuemby/helixdb/pkg/log"
	"github.com/cuemby/helixdb/pkg/metrics"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/vector"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open the store and serve the compiled query handlers over HTTP",
	Long: `serve opens the on-disk store, builds the vector index, registers every
handler the project's "helixdb generate" step produced, and starts the
pinned worker pool behind an HTTP listener. It keeps running until it
receives SIGINT/SIGTERM, at which point it drains in-flight requests and
the worker pool before exiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("data-dir", "./data", "Directory the bbolt store and its indices live in")
	serveCmd.Flags().String("addr", ":6969", "HTTP listen address")
	serveCmd.Flags().Int("cores", 0, "Worker-pool core count (0 = runtime.NumCPU())")
	serveCmd.Flags().Int("threads-per-core", 0, "Worker-pool threads per core (0 = 1)")
}

func runServe(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	addr, _ := cmd.Flags().GetString("addr")
	cores, _ := cmd.Flags().GetInt("cores")
	threadsPerCore, _ := cmd.Flags().GetInt("threads-per-core")

	cfg := compiled.Config()

	engine, err := storage.Open(dataDir, cfg)
	if err != nil {
		metrics.RegisterComponent("storage", false, err.Error())
		return err
	}
	defer engine.Close()
	metrics.RegisterComponent("storage", true, "")

	vec := vector.New(cfg.VectorConfig)

	registry := gateway.NewRegistry()
	compiled.RegisterAll(registry, engine, vec)

	pool := gateway.NewWorkerPool(gateway.PoolConfig{
		Cores:          cores,
		ThreadsPerCore: threadsPerCore,
	})

	gw := gateway.New(engine, registry, pool)

	collector := metrics.NewCollector(engine)
	collector.Start()
	defer collector.Stop()

	log.Info("serving compiled handlers: " + joinNames(registry.Names()) + " on " + addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return gw.Run(ctx, addr)
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
