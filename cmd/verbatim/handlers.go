package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/verbatim/internal/bench"
	"github.com/haasonsaas/verbatim/internal/config"
	"github.com/haasonsaas/verbatim/internal/corpus"
	"github.com/haasonsaas/verbatim/internal/embeddings"
	embollama "github.com/haasonsaas/verbatim/internal/embeddings/ollama"
	embopenai "github.com/haasonsaas/verbatim/internal/embeddings/openai"
	"github.com/haasonsaas/verbatim/internal/eval"
	"github.com/haasonsaas/verbatim/internal/index"
	"github.com/haasonsaas/verbatim/internal/llm"
	"github.com/haasonsaas/verbatim/internal/llm/providers"
	"github.com/haasonsaas/verbatim/internal/observability"
	"github.com/haasonsaas/verbatim/internal/pipeline"
	"github.com/haasonsaas/verbatim/internal/retry"
	"github.com/haasonsaas/verbatim/internal/store/sqlite"
)

const timeRound = 10 * time.Millisecond

// metrics uses the default Prometheus registry; the CLI records but does
// not serve them, so a single process-wide instance suffices.
var metrics = observability.NewMetrics(nil)

type queryOptions struct {
	configPath  string
	question    string
	mode        string
	model       string
	provider    string
	topK        int
	threshold   float32
	showSources bool
	asJSON      bool
}

type benchOptions struct {
	configPath     string
	dataDir        string
	model          string
	provider       string
	coherenceModel string
	noCoherence    bool
	outputJSON     string
}

func runIndex(cmd *cobra.Command, configPath, dataDir, storePath string) error {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}

	manager, err := buildIndexManager(cfg)
	if err != nil {
		return err
	}
	defer manager.Close()

	ctx := cmd.Context()
	logger.Info(ctx, "indexing feedback", "data_dir", cfg.DataDir, "store", cfg.Store.Path)

	result, err := manager.IndexDir(ctx, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("index %s: %w", cfg.DataDir, err)
	}

	metrics.SummariesIndexed.Add(float64(result.Indexed))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %d summaries (%d skipped) in %s\n",
		result.Indexed, result.Skipped, result.Duration.Round(timeRound))
	return nil
}

func runQuery(cmd *cobra.Command, opts queryOptions) error {
	cfg, logger, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.topK > 0 {
		cfg.Search.TopK = opts.topK
	}
	if opts.threshold > 0 {
		cfg.Search.Threshold = opts.threshold
	}

	mode, err := pipeline.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	manager, err := buildIndexManager(cfg)
	if err != nil {
		return err
	}
	defer manager.Close()

	provider, defaultModel, err := buildLLMProvider(cfg, opts.provider)
	if err != nil {
		return err
	}
	model := opts.model
	if model == "" {
		model = defaultModel
	}

	ctx := cmd.Context()
	logger.Info(ctx, "query", "run_id", uuid.NewString(), "mode", string(mode), "model", model)

	p := pipeline.New(manager, provider, pipeline.Options{
		Model:     model,
		MaxTokens: cfg.LLM.MaxTokens,
		Metrics:   metrics,
	})

	out := cmd.OutOrStdout()
	var onChunk func(string)
	if !opts.asJSON {
		onChunk = func(s string) { fmt.Fprint(out, s) }
	}

	resp, err := p.Query(ctx, opts.question, mode, onChunk)
	if err != nil {
		return err
	}

	if opts.asJSON {
		payload, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	fmt.Fprintln(out)
	if opts.showSources {
		fmt.Fprintln(out, "\nSources:")
		for i, r := range resp.Results {
			fmt.Fprintf(out, "  %d. [%s] score=%.3f %s\n", i+1, r.RecordID, r.Score, r.Content)
		}
	}
	if resp.Cost != nil {
		fmt.Fprintln(out, "\n"+resp.Cost.String())
	}
	return nil
}

func runBench(cmd *cobra.Command, opts benchOptions) error {
	cfg, logger, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.outputJSON != "" {
		cfg.Bench.OutputPath = opts.outputJSON
	}
	if opts.coherenceModel != "" {
		cfg.Judge.Model = opts.coherenceModel
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	records, err := corpus.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load feedback records: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d feedback records from %s\n", records.Len(), cfg.DataDir)

	manager, err := buildIndexManager(cfg)
	if err != nil {
		return err
	}
	defer manager.Close()

	provider, defaultModel, err := buildLLMProvider(cfg, opts.provider)
	if err != nil {
		return err
	}
	model := opts.model
	if model == "" {
		model = defaultModel
	}

	p := pipeline.New(manager, provider, pipeline.Options{
		Model:     model,
		MaxTokens: cfg.LLM.MaxTokens,
		Metrics:   metrics,
	})

	var judge *eval.CoherenceJudge
	if !opts.noCoherence && cfg.Judge.On() {
		judge = eval.NewCoherenceJudge(provider, cfg.Judge.Model)
		judge.SetMaxTokens(cfg.Judge.MaxTokens)
	}

	runner := bench.NewRunner(p, records, bench.Options{
		Queries: cfg.Bench.Queries,
		Judge:   judge,
		Retry:   retry.Exponential(cfg.Judge.MaxRetries, cfg.Judge.RetryDelay, cfg.Judge.MaxDelay),
		Pause:   cfg.Bench.Pause,
		Model:   model,
		Logger:  logger.WithFields("run_id", uuid.NewString()),
		Metrics: metrics,
	})

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := bench.WriteReport(cfg.Bench.OutputPath, report); err != nil {
		return err
	}

	printSummary(out, report)
	fmt.Fprintf(out, "\nResults saved to %s\n", cfg.Bench.OutputPath)
	return nil
}

func printSummary(out io.Writer, report *bench.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nMODE\tQUERIES\tFAILURES\tTOKENS\tCOST\tAVG TTFT\tVERBATIM\tCITATION\tHALLUC\tCOHERENCE")
	for _, s := range report.Summary {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%.2fs\t%s\t%s\t%s\t%s\n",
			s.Mode, s.Queries, s.Failures, s.TotalTokens,
			formatUSD(s.TotalCostUSD), s.AvgTTFTSeconds,
			formatRate(s.AvgVerbatimRate), formatRate(s.AvgCitationRate),
			formatRate(s.AvgHallucinationRate), formatScore(s.AvgCoherenceScore))
	}
	w.Flush()
}

func formatUSD(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.4f", *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f/5", *v)
}

func loadConfig(path string) (*config.Config, *observability.Logger, error) {
	if path == "" {
		if env := os.Getenv("VERBATIM_CONFIG"); env != "" {
			path = env
		} else if _, err := os.Stat("verbatim.yaml"); err == nil {
			path = "verbatim.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	return cfg, logger, nil
}

func buildEmbedder(cfg *config.Config) (embeddings.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Embeddings.Provider)) {
	case "openai", "":
		apiKey := cfg.Embeddings.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return embopenai.New(embopenai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.Embeddings.BaseURL,
			Model:   cfg.Embeddings.Model,
		})
	case "ollama":
		return embollama.New(embollama.Config{
			BaseURL: cfg.Embeddings.BaseURL,
			Model:   cfg.Embeddings.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embeddings.Provider)
	}
}

func buildIndexManager(cfg *config.Config) (*index.Manager, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	summaryStore, err := sqlite.New(sqlite.Config{Path: cfg.Store.Path})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	return index.NewManager(summaryStore, embedder, &index.Config{
		EmbeddingBatchSize: cfg.Embeddings.BatchSize,
		TopK:               cfg.Search.TopK,
		Threshold:          cfg.Search.Threshold,
	}), nil
}

// buildLLMProvider resolves the provider by name, falling back to the
// config default. API keys come from the provider block or the
// conventional environment variable.
func buildLLMProvider(cfg *config.Config, name string) (llm.Provider, string, error) {
	if name == "" {
		name = cfg.LLM.DefaultProvider
	}
	name = strings.ToLower(strings.TrimSpace(name))
	creds := cfg.LLM.Providers[name]

	switch name {
	case "openai", "":
		model := firstNonEmpty(cfg.LLM.Model, creds.DefaultModel, "gpt-4o-mini")
		p, err := providers.NewOpenAIProvider(providers.OpenAIConfig{
			APIKey:       firstNonEmpty(creds.APIKey, os.Getenv("OPENAI_API_KEY")),
			BaseURL:      creds.BaseURL,
			DefaultModel: model,
		})
		if err != nil {
			return nil, "", err
		}
		return p, model, nil
	case "groq":
		model := firstNonEmpty(cfg.LLM.Model, creds.DefaultModel, "llama-3.3-70b-versatile")
		p, err := providers.NewGroqProvider(providers.GroqConfig{
			APIKey:       firstNonEmpty(creds.APIKey, os.Getenv("GROQ_API_KEY")),
			DefaultModel: model,
		})
		if err != nil {
			return nil, "", err
		}
		return p, model, nil
	case "anthropic":
		model := firstNonEmpty(cfg.LLM.Model, creds.DefaultModel, "claude-sonnet-4-20250514")
		p, err := providers.NewAnthropicProvider(providers.AnthropicConfig{
			APIKey:       firstNonEmpty(creds.APIKey, os.Getenv("ANTHROPIC_API_KEY")),
			BaseURL:      creds.BaseURL,
			DefaultModel: model,
		})
		if err != nil {
			return nil, "", err
		}
		return p, model, nil
	default:
		return nil, "", fmt.Errorf("unknown LLM provider %q", name)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
