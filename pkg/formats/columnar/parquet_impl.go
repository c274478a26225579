package columnar

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	config        *WriterConfig
	arrowSchema   *arrow.Schema
	fileWriter    *pqarrow.FileWriter
	recordBuilder *array.RecordBuilder
	currentBatch  int
	rowsWritten   int64
	closed        bool
}

func newParquetWriter(w io.Writer, config *WriterConfig) (*parquetWriter, error) {
	fields := make([]arrow.Field, len(config.Columns))
	for i, col := range config.Columns {
		fields[i] = arrow.Field{
			Name:     col,
			Type:     arrow.BinaryTypes.String,
			Nullable: true,
		}
	}
	arrowSchema := arrow.NewSchema(fields, nil)

	alloc := memory.NewGoAllocator()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(parquetCompression(config.Compression)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(alloc),
	)

	fw, err := pqarrow.NewFileWriter(arrowSchema, w, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	return &parquetWriter{
		config:        config,
		arrowSchema:   arrowSchema,
		fileWriter:    fw,
		recordBuilder: array.NewRecordBuilder(alloc, arrowSchema),
	}, nil
}

func (pw *parquetWriter) WriteRow(row []string) error {
	for i := range pw.config.Columns {
		builder := pw.recordBuilder.Field(i).(*array.StringBuilder)
		if i < len(row) {
			builder.Append(row[i])
		} else {
			builder.AppendNull()
		}
	}

	pw.currentBatch++
	if pw.currentBatch >= pw.config.BatchSize {
		return pw.flushBatch()
	}
	return nil
}

func (pw *parquetWriter) WriteRows(rows [][]string) error {
	for _, row := range rows {
		if err := pw.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (pw *parquetWriter) Flush() error {
	return pw.flushBatch()
}

func (pw *parquetWriter) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true

	if err := pw.flushBatch(); err != nil {
		return err
	}
	if err := pw.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return nil
}

func (pw *parquetWriter) Format() Format {
	return Parquet
}

func (pw *parquetWriter) RowsWritten() int64 {
	return pw.rowsWritten
}

func (pw *parquetWriter) flushBatch() error {
	if pw.currentBatch == 0 {
		return nil
	}

	record := pw.recordBuilder.NewRecord()
	defer record.Release()

	if err := pw.fileWriter.WriteBuffered(record); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}

	pw.rowsWritten += int64(pw.currentBatch)
	pw.currentBatch = 0
	return nil
}

func parquetCompression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "none":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
