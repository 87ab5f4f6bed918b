package main

import (
	"github.com/spf13/cobra"
)

func buildIndexCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		storePath  string
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed feedback summaries into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, configPath, dataDir, storePath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML or JSON5 configuration file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory of exported feedback pairs (overrides config)")
	cmd.Flags().StringVar(&storePath, "store", "", "Path to the summary store database (overrides config)")
	return cmd
}

func buildQueryCmd() *cobra.Command {
	var (
		configPath  string
		mode        string
		model       string
		provider    string
		topK        int
		threshold   float32
		showSources bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Answer a question over the indexed feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, queryOptions{
				configPath:  configPath,
				question:    args[0],
				mode:        mode,
				model:       model,
				provider:    provider,
				topK:        topK,
				threshold:   threshold,
				showSources: showSources,
				asJSON:      asJSON,
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML or JSON5 configuration file")
	cmd.Flags().StringVar(&mode, "mode", "enhanced", "Prompt mode: baseline or enhanced")
	cmd.Flags().StringVar(&model, "model", "", "Model ID (defaults to provider default)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai, groq, or anthropic")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of summaries to retrieve (overrides config)")
	cmd.Flags().Float32Var(&threshold, "threshold", 0, "Minimum similarity score 0-1 (overrides config)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Print retrieved summaries before the answer")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full response as JSON instead of streaming text")
	return cmd
}

func buildBenchCmd() *cobra.Command {
	var (
		configPath     string
		dataDir        string
		model          string
		provider       string
		coherenceModel string
		noCoherence    bool
		outputJSON     string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark baseline vs enhanced prompting with quote grounding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, benchOptions{
				configPath:     configPath,
				dataDir:        dataDir,
				model:          model,
				provider:       provider,
				coherenceModel: coherenceModel,
				noCoherence:    noCoherence,
				outputJSON:     outputJSON,
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML or JSON5 configuration file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory of exported feedback pairs (overrides config)")
	cmd.Flags().StringVar(&model, "model", "", "Model ID for answer generation")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai, groq, or anthropic")
	cmd.Flags().StringVar(&coherenceModel, "coherence-model", "", "Model ID for the coherence judge")
	cmd.Flags().BoolVar(&noCoherence, "no-coherence", false, "Skip LLM-as-judge coherence scoring")
	cmd.Flags().StringVar(&outputJSON, "output-json", "", "Write the JSON report here (overrides config)")
	return cmd
}
