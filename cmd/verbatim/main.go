// Package main provides the CLI for the verbatim feedback-search pipeline.
//
// verbatim indexes exported feedback summaries into a local vector store,
// answers questions over them with inline verbatim citations, and
// benchmarks citation grounding against the raw feedback records.
//
// # Basic Usage
//
// Index exported feedback pairs:
//
//	verbatim index --data-dir data
//
// Ask a question:
//
//	verbatim query "What are users complaining about?"
//
// Compare baseline and enhanced prompting:
//
//	verbatim bench --output-json outputs/benchmark_results.json
//
// # Environment Variables
//
//   - OPENAI_API_KEY: OpenAI key for embeddings, answers, and judging
//   - GROQ_API_KEY: Groq key for answer generation
//   - ANTHROPIC_API_KEY: Anthropic key for answer generation
//
// A .env file in the working directory is loaded at startup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := buildRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "verbatim",
		Short:         "Feedback search with verbatim quote grounding",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		buildIndexCmd(),
		buildQueryCmd(),
		buildBenchCmd(),
	)
	return cmd
}
