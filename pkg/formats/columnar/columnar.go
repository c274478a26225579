// Package columnar provides the best-effort columnar encodings of the
// optimized projections. Datasets are all-string tables, so every writer
// encodes columns as nullable strings.
package columnar

import (
	"fmt"
	"io"
)

// Format represents a columnar storage format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Avro is Apache Avro format
	Avro Format = "avro"
)

// ParseFormat converts a configuration string into a Format. The empty
// string selects Parquet, matching the default artifact layout.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Parquet, Avro:
		return Format(s), nil
	case "":
		return Parquet, nil
	default:
		return "", fmt.Errorf("unsupported columnar format: %q", s)
	}
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Parquet:
		return ".parquet"
	case Avro:
		return ".avro"
	default:
		return ""
	}
}

// Writer writes rows of an all-string table in a columnar format.
type Writer interface {
	// WriteRow writes a single row. Values align positionally with the
	// configured columns; short rows are padded with nulls.
	WriteRow(row []string) error
	// WriteRows writes a batch of rows
	WriteRows(rows [][]string) error
	// Flush flushes any buffered data
	Flush() error
	// Close flushes remaining data and finalizes the file
	Close() error
	// Format returns the columnar format
	Format() Format
	// RowsWritten returns the number of rows written so far
	RowsWritten() int64
}

// WriterConfig configures columnar writers
type WriterConfig struct {
	Format      Format
	Columns     []string
	Compression string
	BatchSize   int
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      Parquet,
		Compression: "snappy",
		BatchSize:   10000,
	}
}

// NewWriter creates a new columnar writer
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	if len(config.Columns) == 0 {
		return nil, fmt.Errorf("at least one column is required for a columnar writer")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWriterConfig().BatchSize
	}

	switch config.Format {
	case Parquet:
		return newParquetWriter(w, config)
	case Avro:
		return newAvroWriter(w, config)
	default:
		return nil, fmt.Errorf("unsupported columnar format: %s", config.Format)
	}
}
