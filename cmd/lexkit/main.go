// Command lexkit is a thin CLI wrapper around the library's exported
// packages: tokenize a file, report the final cursor position, or
// time repeated lexing. Grounded on cli/main.go and cmd/devcmd/main.go's
// cobra root+subcommand wiring and fmt.Errorf error style.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/lexkit/buffer"
	"github.com/aledsdavies/lexkit/config"
	"github.com/aledsdavies/lexkit/examplelexer"
	"github.com/aledsdavies/lexkit/telemetry"
	"github.com/aledsdavies/lexkit/tokenstream"
)

var (
	format     string
	iterations int
	verbose    bool
)

// newRecorder builds a telemetry.Recorder that logs to stderr when
// --verbose is set, or a no-op recorder otherwise.
func newRecorder() *telemetry.Recorder {
	if !verbose {
		return telemetry.NoopRecorder()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return telemetry.NewRecorder(logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lexkit",
	Short: "Inspect and benchmark lexkit's example lexer",
	Long: `lexkit is a small diagnostic CLI over the lexkit library.
It tokenizes a file with the bundled example lexer, reports cursor
positions, or times repeated lexing runs.`,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Tokenize a file and print the resulting tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var positionsCmd = &cobra.Command{
	Use:   "positions <file>",
	Short: "Walk a file codepoint by codepoint and print the final position",
	Args:  cobra.ExactArgs(1),
	RunE:  runPositions,
}

var benchCmd = &cobra.Command{
	Use:   "bench <file>",
	Short: "Time repeated lexing of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Validate a lexer profile YAML file against the built-in schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log diagnostics to stderr")
	tokenizeCmd.Flags().StringVar(&format, "format", "json", "output format: json or cbor")
	benchCmd.Flags().IntVar(&iterations, "iterations", 1000, "number of lexing passes to time")

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(profileCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", args[0], err)
	}

	buf := buffer.New(data)
	buf.EnableTracking()
	tokens, err := examplelexer.All(buf)
	if err != nil {
		return fmt.Errorf("error tokenizing %s: %w", args[0], err)
	}
	newRecorder().TokenizeSummary(len(tokens), buf.BytePos())

	switch format {
	case "json":
		records := tokenstream.FromTokens(tokens)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("error encoding tokens as json: %w", err)
		}
	case "cbor":
		records := tokenstream.FromTokens(tokens)
		if err := tokenstream.Write(os.Stdout, records); err != nil {
			return fmt.Errorf("error encoding tokens as cbor: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q, want json or cbor", format)
	}
	return nil
}

func runPositions(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", args[0], err)
	}

	buf := buffer.New(data)
	buf.EnableTracking()
	for {
		if _, err := buf.NextCodepoint(); err != nil {
			break
		}
	}

	pos := buf.Tracker().Current()
	fmt.Printf("line=%d column=%d offset=%d\n", pos.Line, pos.Column, pos.Offset)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", args[0], err)
	}

	start := time.Now()
	var tokenCount int
	for i := 0; i < iterations; i++ {
		buf := buffer.New(data)
		tokens, err := examplelexer.All(buf)
		if err != nil {
			return fmt.Errorf("error tokenizing %s on iteration %d: %w", args[0], i, err)
		}
		tokenCount = len(tokens)
	}
	elapsed := time.Since(start)

	fmt.Printf("iterations=%d tokens_per_pass=%d total=%s avg_per_pass=%s\n",
		iterations, tokenCount, elapsed, elapsed/time.Duration(iterations))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", args[0], err)
	}

	p, err := config.Load(data)
	if err != nil {
		return fmt.Errorf("error validating profile %s: %w", args[0], err)
	}

	fmt.Printf("tab_width=%d line_ending=%s window_size=%d mode=%s debug=%t\n",
		p.TabWidth, p.LineEnding, p.WindowSize, p.Mode, p.Debug)
	return nil
}
