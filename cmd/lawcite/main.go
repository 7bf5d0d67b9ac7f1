package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
	"github.com/kimjonghyeok62/law-citation-search/pkg/config"
	"github.com/kimjonghyeok62/law-citation-search/pkg/lawapi"
	"github.com/kimjonghyeok62/law-citation-search/pkg/logging"
	"github.com/kimjonghyeok62/law-citation-search/pkg/resolve"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lawcite",
		Short: "Korean statutory citation extractor",
		Long: `lawcite finds statutory citations in Korean text and looks them up
on the law.go.kr open API.

It recognizes:
  - Explicit citations: 건축법 제22조, 도로교통법 시행규칙 제6조의2 제1항 제3호 가목
  - Quoted citations: 「유아교육법」 제2조제2호
  - Back-references: 같은법 제23조, 동법시행령 제9조의2 제3항`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(articleCmd())

	return rootCmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Extract citations from text",
		Long: `Extract statutory citations from text. No network access is needed.

Text is taken from the arguments, from --source, or from stdin.

Example:
  lawcite extract "건축법 제22조, 같은법 제23조를 적용한다."
  lawcite extract --source notice.txt --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			showAnnexes, _ := cmd.Flags().GetBool("annexes")

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cites := citation.ExtractCitations(text)
			var annexes []citation.AnnexMatch
			if showAnnexes {
				for annex := range citation.NewGrammar().Annexes(citation.NormalizeText(text)) {
					annexes = append(annexes, annex)
				}
			}

			out := cmd.OutOrStdout()
			if formatStr != "table" {
				result := struct {
					Citations []citation.Citation   `json:"citations" yaml:"citations"`
					Annexes   []citation.AnnexMatch `json:"annexes,omitempty" yaml:"annexes,omitempty"`
				}{cites, annexes}
				return encode(out, formatStr, result)
			}

			printCitations(out, cites)
			if showAnnexes {
				fmt.Fprintf(out, "\n%-16s %-8s %s\n", "KIND", "NUMBER", "TEXT")
				fmt.Fprintln(out, strings.Repeat("-", 40))
				for _, annex := range annexes {
					fmt.Fprintf(out, "%-16s %-8d %s\n", annex.Kind, annex.Number, annex.Raw)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "Read text from this file")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")
	cmd.Flags().Bool("annexes", false, "Also list attached-table (별표) and addendum (부칙) mentions")

	return cmd
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Extract citations and look them up on law.go.kr",
		Long: `Extract citations, then resolve each one to a law ID, article links
and article content. Content comes from the article JSON API, the full-text
HTML page, or the public law page, in that order.

Example:
  LAWCITE_API_OC=myoc lawcite resolve "건축법 시행령 제9조의2 제3항"
  lawcite resolve --source notice.txt --content`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			showContent, _ := cmd.Flags().GetBool("content")

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cites := citation.ExtractCitations(text)
			client := lawapi.NewClient(cfg.LawAPI(logger))
			resolver := resolve.NewResolver(client, cfg.Resolver(logger))

			results, err := resolver.Resolve(cmd.Context(), cites)
			if err != nil {
				return fmt.Errorf("resolution interrupted: %w", err)
			}

			out := cmd.OutOrStdout()
			if formatStr != "table" {
				if !showContent {
					for i := range results {
						results[i].Content = ""
					}
				}
				return encode(out, formatStr, results)
			}

			if len(results) == 0 {
				fmt.Fprintln(out, "특정 가능한 법조문 인용을 찾지 못했습니다.")
				return nil
			}
			for _, result := range results {
				printResolution(out, result, showContent)
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "Read text from this file")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")
	cmd.Flags().Bool("content", false, "Include sanitized article content")

	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <law name>",
		Short: "Find the law.go.kr ID for a law name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := lawapi.NewClient(cfg.LawAPI(logger))
			row, err := client.SearchLaw(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if formatStr != "table" {
				return encode(out, formatStr, row)
			}
			fmt.Fprintf(out, "Name:       %s\n", row.Name)
			fmt.Fprintf(out, "ID:         %s\n", row.ID)
			if row.SerialNumber != "" {
				fmt.Fprintf(out, "Serial:     %s\n", row.SerialNumber)
			}
			fmt.Fprintf(out, "Full text:  %s\n", client.FullTextURL(row.ID))
			fmt.Fprintf(out, "Public URL: %s\n", lawapi.PublicURL(row.Name))
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")

	return cmd
}

func articleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "article <law-id>",
		Short: "Fetch one article by law ID",
		Long: `Fetch the structured content of one article.

Example:
  lawcite article 001823 --article 22
  lawcite article 002118 --article 9 --suffix 2 --clause 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			numbering := citation.Numbering{}
			numbering.Article, _ = cmd.Flags().GetInt("article")
			numbering.ArticleSuffix, _ = cmd.Flags().GetInt("suffix")
			numbering.Clause, _ = cmd.Flags().GetInt("clause")
			numbering.Item, _ = cmd.Flags().GetInt("item")
			numbering.SubItem, _ = cmd.Flags().GetString("sub-item")

			if numbering.Article <= 0 {
				return fmt.Errorf("--article flag is required")
			}
			if numbering.SubItem != "" && !citation.IsSubItemLabel(numbering.SubItem) {
				return fmt.Errorf("invalid --sub-item %q", numbering.SubItem)
			}

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := lawapi.NewClient(cfg.LawAPI(logger))
			article, err := client.FetchArticle(cmd.Context(), args[0], numbering)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if formatStr != "table" {
				return encode(out, formatStr, article)
			}
			printArticle(out, numbering, article)
			fmt.Fprintf(out, "\n%s\n", client.ArticleURL(args[0], numbering))
			return nil
		},
	}

	cmd.Flags().Int("article", 0, "Article number (조)")
	cmd.Flags().Int("suffix", 0, "Article sub-number (조의N)")
	cmd.Flags().Int("clause", 0, "Clause number (항)")
	cmd.Flags().Int("item", 0, "Item number (호)")
	cmd.Flags().String("sub-item", "", "Sub-item label (목), e.g. 가")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")

	return cmd
}

// setup loads configuration and builds the logger for commands that reach
// the network.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	source, _ := cmd.Flags().GetString("source")

	switch {
	case len(args) > 0 && source != "":
		return "", fmt.Errorf("pass text as arguments or --source, not both")
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case source != "":
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read source: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}

func encode(w io.Writer, formatStr string, value any) error {
	switch formatStr {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown format: %s (use table, json or yaml)", formatStr)
	}
}

func printCitations(w io.Writer, cites []citation.Citation) {
	if len(cites) == 0 {
		fmt.Fprintln(w, "특정 가능한 법조문 인용을 찾지 못했습니다.")
		return
	}

	fmt.Fprintf(w, "%-24s %-28s %s\n", "LAW", "NUMBERING", "TEXT")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, cite := range cites {
		raw := cite.RawSpan
		if cite.ResolvedSpan != "" {
			raw += " → " + cite.ResolvedSpan
		}
		fmt.Fprintf(w, "%-24s %-28s %s\n", cite.LawName(), cite.Numbering.String(), raw)
	}
	fmt.Fprintf(w, "\n%d citation(s)\n", len(cites))
}

func printResolution(w io.Writer, result resolve.Resolution, showContent bool) {
	fmt.Fprintf(w, "%s\n", result.Citation.String())
	if result.Law != nil {
		fmt.Fprintf(w, "  법령ID:    %s", result.Law.ID)
		if result.Law.SerialNumber != "" {
			fmt.Fprintf(w, " · 일련번호: %s", result.Law.SerialNumber)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  조문:      %s\n", result.ArticleURL)
		fmt.Fprintf(w, "  전체 본문: %s\n", result.FullTextURL)
	}
	fmt.Fprintf(w, "  공개 페이지: %s\n", result.PublicURL)
	fmt.Fprintf(w, "  source:    %s\n", result.Source)
	if result.Error != "" {
		fmt.Fprintf(w, "  error:     %s\n", result.Error)
	}
	if showContent && result.Content != "" {
		fmt.Fprintf(w, "  content:\n%s\n", result.Content)
	}
	fmt.Fprintln(w)
}

func printArticle(w io.Writer, numbering citation.Numbering, article lawapi.Article) {
	fmt.Fprintf(w, "%s", numbering.ArticleKey())
	if article.Title != "" {
		fmt.Fprintf(w, "(%s)", article.Title)
	}
	fmt.Fprintln(w)
	if article.Text != "" {
		fmt.Fprintln(w, article.Text)
	}
	for _, clause := range article.Clauses {
		fmt.Fprintf(w, "  %s %s\n", clause.Number, clause.Text)
		for _, item := range clause.Items {
			fmt.Fprintf(w, "    %s %s\n", item.Number, item.Text)
			for _, subItem := range item.SubItems {
				fmt.Fprintf(w, "      %s. %s\n", subItem.Number, subItem.Text)
			}
		}
	}
}
