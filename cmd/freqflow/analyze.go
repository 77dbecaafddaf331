package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"jaytaylor.com/html2text"

	"github.com/BaSui01/freqflow/api"
	"github.com/BaSui01/freqflow/config"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/runner"
	"github.com/BaSui01/freqflow/tokenizer"
)

// =============================================================================
// 📊 analyze 命令
// =============================================================================

// runAnalyze 执行一次词频分析并输出报表。
// 无文件参数时读取 stdin，多个文件并发摄取进同一张频率表。
func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	tokFlags := addTokenizerFlags(fs)
	top := fs.Int("top", 0, "Keep only the N most frequent tokens (0 = all)")
	order := fs.String("order", "", "Sort order: desc, asc")
	format := fs.String("format", "tsv", "Output format: tsv, table, json")
	stripHTML := fs.Bool("html", false, "Strip HTML markup before tokenizing")
	requireNonEmpty := fs.Bool("require-nonempty", false, "Fail when input yields zero tokens")
	fs.Parse(args)

	switch *format {
	case "tsv", "table", "json":
	default:
		fmt.Fprintf(os.Stderr, "freqflow analyze: unknown format %q (valid: tsv, table, json)\n", *format)
		return 1
	}

	cfg, err := loadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow analyze: %v\n", err)
		return 1
	}

	logger := cliLogger(cfg.Log)
	defer logger.Sync()

	// 命令行参数仅在显式给出时覆盖配置值
	visited := visitedFlags(fs)
	report := cfg.Report
	if visited["top"] {
		report.TopN = *top
	}
	if visited["order"] {
		report.Order = freq.Order(*order)
	}

	sources, cleanup, err := openSources(fs.Args(), *stripHTML)
	defer cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow analyze: %v\n", err)
		return 1
	}

	r := runner.NewRunner(logger, runner.WithRequireNonEmpty(cfg.App.RequireNonEmpty))
	result, err := r.Run(context.Background(), runner.Request{
		Tokenizer:       tokFlags.apply(visited, cfg.Tokenizer),
		Report:          report,
		Sources:         sources,
		RequireNonEmpty: *requireNonEmpty,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "freqflow analyze: %v\n", err)
		return 1
	}

	if err := writeAnalyzeResult(os.Stdout, result, *format); err != nil {
		fmt.Fprintf(os.Stderr, "freqflow analyze: %v\n", err)
		return 1
	}
	return 0
}

// writeAnalyzeResult 按指定格式输出报表
func writeAnalyzeResult(w io.Writer, result *runner.Result, format string) error {
	switch format {
	case "tsv":
		return freq.WriteTSV(w, result.Entries)

	case "table":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Rank", "Token", "Count"})
		for _, e := range result.Entries {
			table.Append([]string{
				strconv.Itoa(e.Rank),
				string(e.Token),
				strconv.FormatInt(e.Count, 10),
			})
		}
		table.SetFooter([]string{"", "Total", strconv.FormatInt(result.Total, 10)})
		table.Render()
		return nil

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.AnalyzeResponse{
			RunID:          result.RunID,
			TotalTokens:    result.Total,
			DistinctTokens: result.Distinct,
			Entries:        result.Entries,
			DurationMS:     float64(result.Elapsed) / float64(time.Millisecond),
		})

	default:
		return fmt.Errorf("unknown format: %q (valid: tsv, table, json)", format)
	}
}

// =============================================================================
// 🔧 CLI 共享辅助
// =============================================================================

// tokenizerFlags 是 analyze 与 score 共享的分词器命令行参数
type tokenizerFlags struct {
	mode       *string
	ngramSize  *int
	ngramUnit  *string
	fold       *bool
	stripPunct *bool
}

// addTokenizerFlags 注册分词器参数
func addTokenizerFlags(fs *flag.FlagSet) *tokenizerFlags {
	return &tokenizerFlags{
		mode:       fs.String("mode", "", "Tokenizer mode: character, word, ngram"),
		ngramSize:  fs.Int("ngram-size", 0, "Window size for ngram mode"),
		ngramUnit:  fs.String("ngram-unit", "", "Window unit for ngram mode: characters, words"),
		fold:       fs.Bool("fold", true, "Lowercase tokens (Unicode case folding)"),
		stripPunct: fs.Bool("strip-punct", true, "Strip leading/trailing punctuation from tokens"),
	}
}

// apply 将显式给出的参数叠加到配置值之上
func (f *tokenizerFlags) apply(visited map[string]bool, cfg tokenizer.Config) tokenizer.Config {
	if visited["mode"] {
		cfg.Mode = tokenizer.Mode(*f.mode)
	}
	if visited["ngram-size"] {
		cfg.NGramSize = *f.ngramSize
	}
	if visited["ngram-unit"] {
		cfg.NGramUnit = tokenizer.Unit(*f.ngramUnit)
	}
	if visited["fold"] {
		cfg.CaseFold = *f.fold
	}
	if visited["strip-punct"] {
		cfg.StripPunctuation = *f.stripPunct
	}
	return cfg
}

// visitedFlags 收集本次命令行中显式出现过的参数名
func visitedFlags(fs *flag.FlagSet) map[string]bool {
	visited := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	return visited
}

// loadCLIConfig 加载并验证配置，路径为空时使用默认值加环境变量
func loadCLIConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSources 打开输入源。无文件参数时读取 stdin。
// 返回的 cleanup 关闭已经打开的文件，调用方应立即 defer。
func openSources(paths []string, stripHTML bool) ([]runner.Source, func(), error) {
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	if len(paths) == 0 {
		src, err := wrapSource("stdin", os.Stdin, stripHTML)
		if err != nil {
			return nil, cleanup, err
		}
		return []runner.Source{src}, cleanup, nil
	}

	sources := make([]runner.Source, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, f)

		src, err := wrapSource(path, f, stripHTML)
		if err != nil {
			return nil, cleanup, err
		}
		sources = append(sources, src)
	}
	return sources, cleanup, nil
}

// wrapSource 构造输入源，stripHTML 为真时整读输入并剥离 HTML 标记
func wrapSource(name string, r io.Reader, stripHTML bool) (runner.Source, error) {
	if !stripHTML {
		return runner.Source{Name: name, Reader: r}, nil
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return runner.Source{}, fmt.Errorf("read %s: %w", name, err)
	}
	plain, err := html2text.FromString(string(raw), html2text.Options{})
	if err != nil {
		return runner.Source{}, fmt.Errorf("strip html from %s: %w", name, err)
	}
	return runner.Source{Name: name, Reader: strings.NewReader(plain)}, nil
}
