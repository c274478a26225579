// Package optimizer implements the CSV optimization pipeline: load the
// source dataset, derive the table and detail projections, and write the
// plain, compressed and columnar artifacts plus the lookup index.
package optimizer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/modelprops/dataopt/pkg/compression"
	"github.com/modelprops/dataopt/pkg/config"
	"github.com/modelprops/dataopt/pkg/dataset"
	"github.com/modelprops/dataopt/pkg/errors"
	"github.com/modelprops/dataopt/pkg/formats/columnar"
	"github.com/modelprops/dataopt/pkg/logger"
)

// Fixed artifact names. Downstream loaders look these up by name, so they
// are not versioned or configurable.
const (
	TableFileName  = "table_data.csv"
	DetailFileName = "detail_data.csv"
	IndexFileName  = "data_index.json"

	tableStem  = "table_data"
	detailStem = "detail_data"

	// rowIDColumn joins detail rows back to table rows by original
	// position.
	rowIDColumn = "row_id"
)

// Options configures a single optimization run.
type Options struct {
	// InputPath is the source CSV file
	InputPath string
	// OutputDir receives all artifacts; created if absent
	OutputDir string
	// Config holds column lists, truncation limits, sampling and
	// encoding settings. Nil means defaults.
	Config *config.Config
}

// Stats captures the sizes used for the savings report.
type Stats struct {
	OriginalBytes        int64
	TableBytes           int64
	TableCompressedBytes int64
}

// Result holds the guaranteed output paths and run counters. Columnar
// artifacts are best-effort and intentionally not part of the result.
type Result struct {
	TableFile        string
	DetailFile       string
	TableCompressed  string
	DetailCompressed string
	IndexFile        string

	TotalRows  int
	TableRows  int
	DetailRows int

	Stats Stats
}

// Run executes the pipeline. The input file must exist; callers are
// expected to have checked that already so a missing file surfaces as a
// not_found error here as well.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.With(zap.String("component", "optimizer"))

	if _, err := os.Stat(opts.InputPath); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "input file not found")
	}

	log.Info("reading dataset", zap.String("path", opts.InputPath))
	ds, err := dataset.ReadCSVFile(opts.InputPath)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded",
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory")
	}

	// Table projection: allow-list columns, truncated text, row_id.
	table := ds.Select(cfg.TableColumns)
	tableColumns := append([]string(nil), table.Columns...)
	for col, limit := range cfg.TruncateLimits {
		if table.TruncateColumn(col, limit) {
			log.Debug("truncated column",
				zap.String("column", col),
				zap.Int("limit", limit))
		}
	}
	if err := table.AppendColumn(rowIDColumn, sequentialIDs(table.NumRows())); err != nil {
		return nil, err
	}

	result := &Result{
		TableFile:  filepath.Join(opts.OutputDir, TableFileName),
		DetailFile: filepath.Join(opts.OutputDir, DetailFileName),
		IndexFile:  filepath.Join(opts.OutputDir, IndexFileName),
		TotalRows:  ds.NumRows(),
		TableRows:  table.NumRows(),
	}

	if err := table.WriteCSVFile(result.TableFile); err != nil {
		return nil, err
	}
	log.Info("table data written",
		zap.String("path", result.TableFile),
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", table.NumColumns()))

	// Detail projection: table columns plus the detail allow-list,
	// sampled down when the dataset exceeds the cap. Sampled rows keep
	// their original position as row_id.
	detail := ds.Select(append(append([]string(nil), tableColumns...), cfg.DetailColumns...))
	detailColumns := append([]string(nil), detail.Columns...)

	detail, sampledIDs := detail.Sample(cfg.MaxDetailRows, cfg.Seed)
	if sampledIDs != nil {
		log.Warn("detail view sampled",
			zap.Int("total_rows", ds.NumRows()),
			zap.Int("sampled_rows", len(sampledIDs)),
			zap.Int64("seed", cfg.Seed))
		if err := detail.AppendColumn(rowIDColumn, intIDs(sampledIDs)); err != nil {
			return nil, err
		}
	} else {
		if err := detail.AppendColumn(rowIDColumn, sequentialIDs(detail.NumRows())); err != nil {
			return nil, err
		}
	}
	result.DetailRows = detail.NumRows()

	if err := detail.WriteCSVFile(result.DetailFile); err != nil {
		return nil, err
	}
	log.Info("detail data written",
		zap.String("path", result.DetailFile),
		zap.Int("rows", detail.NumRows()))

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "run canceled")
	}

	// Compressed artifacts.
	algo, err := compression.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression setting")
	}
	if algo != compression.None {
		compressor, err := compression.NewCompressor(&compression.Config{
			Algorithm: algo,
			Level:     compression.Default,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create compressor")
		}

		result.TableCompressed = result.TableFile + algo.Extension()
		result.DetailCompressed = result.DetailFile + algo.Extension()

		if err := compressFile(compressor, result.TableFile, result.TableCompressed); err != nil {
			return nil, err
		}
		if err := compressFile(compressor, result.DetailFile, result.DetailCompressed); err != nil {
			return nil, err
		}
		log.Info("compressed artifacts written", zap.String("algorithm", string(algo)))
	}

	// Columnar artifacts are best-effort: a failure downgrades to a
	// warning and the run still succeeds.
	if cfg.ColumnarFormat != "none" {
		format, err := columnar.ParseFormat(cfg.ColumnarFormat)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid columnar format setting")
		}

		for _, projection := range []struct {
			stem string
			data *dataset.Dataset
		}{
			{tableStem, table},
			{detailStem, detail},
		} {
			path := filepath.Join(opts.OutputDir, projection.stem+format.Extension())
			if err := writeColumnarFile(path, projection.data, format); err != nil {
				log.Warn("columnar write skipped",
					zap.String("path", path),
					zap.Error(err))
				os.Remove(path)
				continue
			}
			log.Info("columnar data written",
				zap.String("path", path),
				zap.String("format", string(format)))
		}
	}

	// Lookup index. row_id_mapping stays null unless sampling occurred;
	// consumers rely on that distinction.
	index := &Index{
		TotalRows:  result.TotalRows,
		TableRows:  result.TableRows,
		DetailRows: result.DetailRows,
		AvailableColumns: ColumnSets{
			Table:  tableColumns,
			Detail: detailColumns,
		},
		RowIDMapping: sampledIDs,
	}
	if err := index.WriteFile(result.IndexFile); err != nil {
		return nil, err
	}
	log.Info("lookup index written", zap.String("path", result.IndexFile))

	result.Stats = collectStats(opts.InputPath, result)
	return result, nil
}

// compressFile writes a compressed copy of src to dst.
func compressFile(compressor compression.Compressor, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to open file for compression")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create compressed file")
	}

	if err := compressor.CompressStream(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to compress "+src)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finalize compressed file")
	}
	return nil
}

// writeColumnarFile encodes a dataset into a columnar file.
func writeColumnarFile(path string, ds *dataset.Dataset, format columnar.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w, err := columnar.NewWriter(f, &columnar.WriterConfig{
		Format:      format,
		Columns:     ds.Columns,
		Compression: "snappy",
		BatchSize:   10000,
	})
	if err != nil {
		f.Close()
		return err
	}

	if err := w.WriteRows(ds.Rows); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	// The parquet writer closes the underlying file itself; the avro one
	// does not. Closing again only releases the descriptor in the latter
	// case, so the double-close error is ignored.
	f.Close()
	return nil
}

// collectStats gathers the file sizes for the savings report. Stat
// failures leave the corresponding size at zero.
func collectStats(inputPath string, result *Result) Stats {
	var stats Stats
	if fi, err := os.Stat(inputPath); err == nil {
		stats.OriginalBytes = fi.Size()
	}
	if fi, err := os.Stat(result.TableFile); err == nil {
		stats.TableBytes = fi.Size()
	}
	if result.TableCompressed != "" {
		if fi, err := os.Stat(result.TableCompressed); err == nil {
			stats.TableCompressedBytes = fi.Size()
		}
	}
	return stats
}

func sequentialIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return ids
}

func intIDs(indices []int) []string {
	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = strconv.Itoa(idx)
	}
	return ids
}
