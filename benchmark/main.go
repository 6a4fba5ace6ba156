// Package main provides a performance benchmarking tool for the octocred CLI.
// It measures end-to-end evaluation times across applicants of different sizes
// and history backends, running each test multiple times, treating the first
// successful run as cold and averaging the rest as warm, generating CSV output
// for performance analysis and documentation.
//
// Prerequisites:
// - octocred binary installed and available in PATH
// - OCTOCRED_TOKEN set to a GitHub token with read access to the test repositories
//
// Usage: go run benchmark/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs per backend).
type BenchmarkResult struct {
	Applicant  string
	Backend    string
	ColdTime   string
	WarmTime   string
	RepoCount  int
	WindowDays int
}

// BenchmarkApplicant describes one applicant to evaluate.
type BenchmarkApplicant struct {
	Username     string
	Repositories []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout    time.Duration
	Workers    int
	Runs       int
	WindowDays int
	Backends   []string
	Applicants []BenchmarkApplicant
}

func main() {
	config := BenchmarkConfig{
		Timeout:    3 * time.Minute,
		Workers:    4,
		Runs:       4,
		WindowDays: 90,
		Backends:   []string{"csv", "sqlite"},
		Applicants: []BenchmarkApplicant{
			{Username: "octocat", Repositories: []string{"octocat/hello-world"}},
			{Username: "octocat", Repositories: []string{"octocat/hello-world", "octocat/spoon-knife"}},
			{Username: "torvalds", Repositories: []string{"torvalds/linux"}},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty history so renewal comparisons don't skew run times
	fmt.Printf("Clearing history...\n")
	for _, backend := range config.Backends {
		clearCmd := exec.Command("octocred", "history", "clear", "--history-backend", backend)
		if output, err := clearCmd.CombinedOutput(); err != nil {
			fmt.Printf("Warning: failed to clear %s history: %v\nOutput: %s\n", backend, err, string(output))
		}
	}
	fmt.Printf("History cleared\n")

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the octocred binary and a token are available
func checkPrerequisites() error {
	if _, err := exec.LookPath("octocred"); err != nil {
		return fmt.Errorf("octocred binary not found in PATH")
	}
	if os.Getenv("OCTOCRED_TOKEN") == "" {
		return fmt.Errorf("OCTOCRED_TOKEN is not set")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured applicants and backends
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d applicants, %v timeout, %d workers, %d runs per backend\n",
		len(config.Applicants), config.Timeout, config.Workers, config.Runs)

	for _, applicant := range config.Applicants {
		label := fmt.Sprintf("%s (%d repos)", applicant.Username, len(applicant.Repositories))
		fmt.Printf("Benchmarking %s\n", label)

		for _, backend := range config.Backends {
			fmt.Printf("  %s backend (%d runs)\n", backend, config.Runs)
			cold, warmTimes := runBenchmark(config, applicant, backend)

			coldStr := "TIMEOUT"
			if cold > 0 {
				coldStr = fmt.Sprintf("%.3fs", cold)
			}
			warmStr := "TIMEOUT"
			if len(warmTimes) > 0 {
				var sum float64
				for _, t := range warmTimes {
					sum += t
				}
				warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
			}
			fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)

			results = append(results, BenchmarkResult{
				Applicant:  label,
				Backend:    backend,
				ColdTime:   coldStr,
				WarmTime:   warmStr,
				RepoCount:  len(applicant.Repositories),
				WindowDays: config.WindowDays,
			})
		}
	}

	return results
}

// runBenchmark executes octocred analyze multiple times with the specified
// history backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, applicant BenchmarkApplicant, backend string) (coldTime float64, warmTimes []float64) {
	args := []string{"analyze", applicant.Username}
	args = append(args, applicant.Repositories...)
	args = append(args,
		"--history-backend", backend,
		"--workers", fmt.Sprintf("%d", config.Workers),
		"--window-days", fmt.Sprintf("%d", config.WindowDays),
	)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("octocred", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/octocred_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"applicant", "backend", "repos", "window_days", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		row := []string{
			result.Applicant,
			result.Backend,
			fmt.Sprintf("%d", result.RepoCount),
			fmt.Sprintf("%d", result.WindowDays),
			result.ColdTime,
			result.WarmTime,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, result := range results {
		fmt.Printf("  %-28s [%-6s]: Cold: %s, Warm: %s\n",
			result.Applicant, result.Backend, result.ColdTime, result.WarmTime)
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
