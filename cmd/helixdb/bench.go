package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Load-test a running helixdb serve instance",
	Long: `bench fires a fixed number of requests against one query endpoint of a
running server, spread across a pool of concurrent workers, and reports
throughput and latency once every request has either completed or
failed. It's a thin client-side load generator, not a server component -
useful for sizing the worker-pool flags serve exposes.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().String("url", "http://127.0.0.1:6969", "Base URL of the running server")
	benchCmd.Flags().String("query", "", "Query name to POST (required)")
	benchCmd.Flags().String("body", "{}", "JSON request body")
	benchCmd.Flags().Int("requests", 1000, "Total requests to send")
	benchCmd.Flags().Int("concurrency", 16, "Number of concurrent workers")
	benchCmd.MarkFlagRequired("query")
}

type benchResult struct {
	ok       int64
	failed   int64
	totalDur time.Duration
	mu       sync.Mutex
}

func runBench(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	query, _ := cmd.Flags().GetString("query")
	body, _ := cmd.Flags().GetString("body")
	total, _ := cmd.Flags().GetInt("requests")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	endpoint := url + "/" + query
	client := &http.Client{Timeout: 30 * time.Second}

	var sent int64
	res := &benchResult{}
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := atomic.AddInt64(&sent, 1)
				if n > int64(total) {
					return
				}
				reqStart := time.Now()
				resp, err := client.Post(endpoint, "application/json", bytes.NewReader([]byte(body)))
				dur := time.Since(reqStart)
				res.mu.Lock()
				res.totalDur += dur
				if err != nil || resp.StatusCode >= 400 {
					res.failed++
				} else {
					res.ok++
				}
				res.mu.Unlock()
				if resp != nil {
					resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("requests: %d  ok: %d  failed: %d\n", total, res.ok, res.failed)
	fmt.Printf("elapsed: %s  throughput: %.1f req/s\n", elapsed, float64(total)/elapsed.Seconds())
	if res.ok+res.failed > 0 {
		fmt.Printf("avg latency: %s\n", res.totalDur/time.Duration(res.ok+res.failed))
	}
	return nil
}
