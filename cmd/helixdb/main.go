package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/helixdb/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "helixdb",
	Short: "HelixDB - an embedded graph and vector database",
	Long: `HelixDB is a single-binary graph and vector database: a bbolt-backed
MVCC store, an HNSW vector index, and a pinned worker pool fronting query
handlers compiled from HelixQL source by pkg/helixql.

This binary hosts one compiled project at a time - the handler registry
it serves comes from a package generated ahead of time by "helixdb
generate" and imported at build time, the way sqlc- or protoc-generated
code is checked in and imported rather than loaded dynamically.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("helixdb version %s\ncommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(generateCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
