package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"backlog/internal/collection"
	"backlog/internal/config"
	"backlog/internal/enrich"
	"backlog/internal/hltb"
	"backlog/internal/logging"
	"backlog/internal/services/llm"
)

func newEnrichCommand(configFlag *string) *cobra.Command {
	var outputPath string
	var overwrite bool
	var maxGames int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "enrich <collection.csv>",
		Short: "Fill missing playtime, score, year, and genre fields in a collection CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("overwrite") {
				cfg.Pipeline.OverwriteInput = overwrite
			}
			if cmd.Flags().Changed("max-games") {
				cfg.Pipeline.MaxGames = maxGames
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			inputPath := args[0]
			records, err := collection.ReadFile(inputPath)
			if err != nil {
				return err
			}

			searcher, err := hltb.New(cfg.HLTB.BaseURL, cfg.HLTB.UserAgent)
			if err != nil {
				return err
			}
			completer := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})

			pipeline, err := enrich.New(enrich.Options{
				SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
				MaxConcurrent:       cfg.Pipeline.MaxConcurrent,
				GenreBatchSize:      cfg.Pipeline.GenreBatchSize,
				MaxGames:            cfg.Pipeline.MaxGames,
				SkipPlatforms:       cfg.SkipPlatformSet(),
				Rates: enrich.Rates{
					InputUSDPerMtok:  cfg.Pricing.InputUSDPerMtok,
					OutputUSDPerMtok: cfg.Pricing.OutputUSDPerMtok,
				},
			}, cfg.Vocabulary(), searcher, completer, logger)
			if err != nil {
				return err
			}

			enriched, summary, err := pipeline.Run(cmd.Context(), records)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run; no file written")
			} else {
				target := resolveOutputPath(inputPath, outputPath, cfg.Pipeline.OverwriteInput)
				if err := collection.WriteFile(target, enriched); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d records to %s\n", len(enriched), target)
			}
			fmt.Fprintln(out, renderSummaryTable(summary, isTerminal(out)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination CSV (defaults to <input>.enriched.csv)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Write results back into the input file")
	cmd.Flags().IntVar(&maxGames, "max-games", 0, "Cap the number of records processed this run (0 = unbounded)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing any file")
	return cmd
}

// resolveOutputPath picks the destination file. An explicit --output wins,
// then overwrite-in-place, then a sibling .enriched.csv next to the input.
func resolveOutputPath(inputPath, explicit string, overwrite bool) string {
	if explicit != "" {
		return explicit
	}
	if overwrite {
		return inputPath
	}
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if ext == "" {
		ext = ".csv"
	}
	return base + ".enriched" + ext
}

func renderSummaryTable(summary enrich.Summary, rounded bool) string {
	rows := [][]string{
		{"Records", strconv.Itoa(summary.TotalRecords)},
		{"Duplicates dropped", strconv.Itoa(summary.DuplicatesDropped)},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Nothing to fill", strconv.Itoa(summary.SkippedNoWork)},
		{"Beyond cap", strconv.Itoa(summary.PassedThroughCap)},
		{"Lookups skipped (platform)", strconv.Itoa(summary.PlatformSkipped)},
		{"Matched", strconv.Itoa(summary.Matched)},
		{"Unmatched", strconv.Itoa(summary.Unmatched)},
		{"Provider errors", strconv.Itoa(summary.ProviderErrors)},
		{"Genres assigned", strconv.Itoa(summary.GenresAssigned)},
		{"Classifier calls", strconv.Itoa(summary.Cost.Calls)},
		{"Classifier failures", strconv.Itoa(summary.Cost.FailedCalls)},
		{"Genre cache hits", strconv.Itoa(summary.Cost.CacheHits)},
		{"Tokens (in/out)", fmt.Sprintf("%d / %d", summary.Cost.InputTokens, summary.Cost.OutputTokens)},
		{"Estimated cost", fmt.Sprintf("$%.4f", summary.Cost.EstimatedUSD)},
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}, rounded)
}
