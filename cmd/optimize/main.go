package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modelprops/dataopt/internal/optimizer"
	"github.com/modelprops/dataopt/pkg/config"
	"github.com/modelprops/dataopt/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var (
		outputDir      string
		maxDetailRows  int
		configFile     string
		compressionAlg string
		columnarFormat string
		seed           int64
		logLevel       string
	)

	root := &cobra.Command{
		Use:   "optimize <input_file>",
		Short: "Optimize a CSV dataset for fast client loading",
		Long: `Optimize splits a large CSV dataset into a slim table view and a richer
detail view, each written as plain CSV, compressed CSV and a best-effort
columnar file, plus a JSON index describing the split. Downstream clients
load the small table file for listings and fetch detail rows on demand.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			// Flags win over config file and environment
			flags := cmd.Flags()
			if flags.Changed("max-detail-rows") {
				cfg.MaxDetailRows = maxDetailRows
			}
			if flags.Changed("compression") {
				cfg.Compression = compressionAlg
			}
			if flags.Changed("columnar-format") {
				cfg.ColumnarFormat = columnarFormat
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.Init(logger.Config{
				Level:    cfg.LogLevel,
				Encoding: "console",
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if _, err := os.Stat(inputFile); err != nil {
				return fmt.Errorf("input file %s not found", inputFile)
			}

			log := logger.With(zap.String("component", "optimize-cli"))
			log.Info("starting optimization",
				zap.String("input", inputFile),
				zap.String("output_dir", outputDir),
				zap.Int("max_detail_rows", cfg.MaxDetailRows))

			result, err := optimizer.Run(context.Background(), optimizer.Options{
				InputPath: inputFile,
				OutputDir: outputDir,
				Config:    cfg,
			})
			if err != nil {
				return err
			}

			printReport(result)
			fmt.Printf("\nOptimization complete! Files saved to %s\n", outputDir)
			return nil
		},
	}

	root.Flags().StringVar(&outputDir, "output-dir", "./optimized_data", "Output directory")
	root.Flags().IntVar(&maxDetailRows, "max-detail-rows", 10000, "Maximum rows in detail file (for very large datasets)")
	root.Flags().StringVar(&configFile, "config", "", "Path to optional configuration file (YAML or JSON)")
	root.Flags().StringVar(&compressionAlg, "compression", "gzip", "Compression for artifact copies (gzip, zstd, lz4, snappy, s2, none)")
	root.Flags().StringVar(&columnarFormat, "columnar-format", "parquet", "Best-effort columnar encoding (parquet, avro, none)")
	root.Flags().Int64Var(&seed, "seed", 42, "Random seed for detail sampling")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("optimize v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	if err := root.Execute(); err != nil {
		// All diagnostics go to stdout, including failures
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// printReport prints the size-savings summary for the run.
func printReport(result *optimizer.Result) {
	const mb = 1024 * 1024

	original := float64(result.Stats.OriginalBytes) / mb
	table := float64(result.Stats.TableBytes) / mb
	compressed := float64(result.Stats.TableCompressedBytes) / mb

	fmt.Println("\nOptimization Results:")
	fmt.Printf("   Rows: %d total, %d table, %d detail\n",
		result.TotalRows, result.TableRows, result.DetailRows)
	fmt.Printf("   Original file: %.1f MB\n", original)
	if original > 0 {
		fmt.Printf("   Table data: %.1f MB (%.1f%% of original)\n",
			table, table/original*100)
		if compressed > 0 {
			fmt.Printf("   Table compressed: %.1f MB (%.1f%% of original)\n",
				compressed, compressed/original*100)
			fmt.Printf("   Estimated loading improvement: %.1fx faster\n",
				original/compressed)
		}
	}
}
