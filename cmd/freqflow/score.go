package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/BaSui01/freqflow/api"
	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/runner"
	"github.com/BaSui01/freqflow/tokenizer"
)

// =============================================================================
// 📈 score 命令
// =============================================================================

// runScore 对文档（文件或 stdin）计算相对参考语料的亲和度。
// 参考语料来自 --reference（原始文本）或 --reference-table（token<TAB>count）。
func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	tokFlags := addTokenizerFlags(fs)
	refPath := fs.String("reference", "", "Reference corpus as raw text")
	refTablePath := fs.String("reference-table", "", "Reference corpus as token<TAB>count TSV")
	baseRate := fs.Float64("base-rate", 0, "Prior probability for the affinity model (0 = default)")
	smoothing := fs.Float64("smoothing", 0, "Laplace smoothing constant (0 = default)")
	top := fs.Int("top", 0, "Contributor breakdown size (0 = config default)")
	format := fs.String("format", "json", "Output format: json, table")
	stripHTML := fs.Bool("html", false, "Strip HTML markup from the document before tokenizing")
	fs.Parse(args)

	if (*refPath == "") == (*refTablePath == "") {
		fmt.Fprintln(os.Stderr, "freqflow score: exactly one of --reference or --reference-table is required")
		return 1
	}
	switch *format {
	case "json", "table":
	default:
		fmt.Fprintf(os.Stderr, "freqflow score: unknown format %q (valid: json, table)\n", *format)
		return 1
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "freqflow score: at most one document file")
		return 1
	}

	cfg, err := loadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow score: %v\n", err)
		return 1
	}

	logger := cliLogger(cfg.Log)
	defer logger.Sync()

	visited := visitedFlags(fs)
	tokCfg := tokFlags.apply(visited, cfg.Tokenizer)

	modelCfg := cfg.Score.ModelConfig()
	if visited["base-rate"] {
		modelCfg.BaseRate = *baseRate
	}
	if visited["smoothing"] {
		modelCfg.Smoothing = *smoothing
	}

	topContributors := cfg.Score.TopContributors
	if visited["top"] {
		topContributors = *top
	}

	r := runner.NewRunner(logger)
	ctx := context.Background()

	model, err := buildScoreModel(ctx, r, tokCfg, modelCfg, *refPath, *refTablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow score: %v\n", err)
		return 1
	}

	sources, cleanup, err := openSources(fs.Args(), *stripHTML)
	defer cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow score: %v\n", err)
		return 1
	}

	outcome, err := r.Score(ctx, runner.ScoreRequest{
		Tokenizer:       tokCfg,
		Model:           model,
		TopContributors: topContributors,
		Sources:         sources,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow score: %v\n", err)
		return 1
	}

	if err := writeScoreOutcome(os.Stdout, outcome, *format); err != nil {
		fmt.Fprintf(os.Stderr, "freqflow score: %v\n", err)
		return 1
	}
	return 0
}

// buildScoreModel 从参考文件构建评分模型。
// TSV 参考表直接读入；原始文本参考先分词摄取再推导权重。
func buildScoreModel(ctx context.Context, r *runner.Runner, tokCfg tokenizer.Config, modelCfg corpus.ModelConfig, refPath, refTablePath string) (*corpus.Model, error) {
	if refTablePath != "" {
		f, err := os.Open(refTablePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		table, err := corpus.ReadTable(f)
		if err != nil {
			return nil, err
		}
		return corpus.NewModel(table, modelCfg)
	}

	f, err := os.Open(refPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.BuildModel(ctx, tokCfg, modelCfg, runner.Source{Name: refPath, Reader: f})
}

// writeScoreOutcome 按指定格式输出评分结果
func writeScoreOutcome(w io.Writer, outcome *runner.ScoreOutcome, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.ScoreResponse{
			RunID:          outcome.RunID,
			Affinity:       outcome.Score.Affinity,
			Bias:           outcome.Score.Bias,
			MeanWeight:     outcome.Score.MeanWeight,
			DocumentTokens: outcome.Score.DocumentTokens,
			UnknownTokens:  outcome.Score.UnknownTokens,
			Top:            outcome.Score.Top,
			Bottom:         outcome.Score.Bottom,
			DurationMS:     float64(outcome.Elapsed) / float64(time.Millisecond),
		})

	case "table":
		fmt.Fprintf(w, "Affinity:        %.6f\n", outcome.Score.Affinity)
		fmt.Fprintf(w, "Bias:            %+.4f\n", outcome.Score.Bias)
		fmt.Fprintf(w, "Document tokens: %d (unknown: %d)\n",
			outcome.Score.DocumentTokens, outcome.Score.UnknownTokens)

		if len(outcome.Score.Top) > 0 {
			fmt.Fprintln(w)
			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"Token", "Weight", "Count", "Known"})
			for _, c := range outcome.Score.Top {
				table.Append(contributorRow(c))
			}
			for _, c := range outcome.Score.Bottom {
				table.Append(contributorRow(c))
			}
			table.Render()
		}
		return nil

	default:
		return fmt.Errorf("unknown format: %q (valid: json, table)", format)
	}
}

func contributorRow(c corpus.Contribution) []string {
	return []string{
		string(c.Token),
		fmt.Sprintf("%+.4f", c.Weight),
		strconv.FormatInt(c.Count, 10),
		strconv.FormatBool(c.Known),
	}
}
