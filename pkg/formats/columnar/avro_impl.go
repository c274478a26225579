package columnar

import (
	"fmt"
	"io"
	"unicode"

	json "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"
)

// avroWriter implements Writer for Avro object container files
type avroWriter struct {
	config      *WriterConfig
	codec       *goavro.Codec
	ocfWriter   *goavro.OCFWriter
	fieldNames  []string
	buffer      []interface{}
	rowsWritten int64
}

func newAvroWriter(w io.Writer, config *WriterConfig) (*avroWriter, error) {
	fieldNames := make([]string, len(config.Columns))
	for i, col := range config.Columns {
		fieldNames[i] = avroFieldName(col)
	}

	schema, err := avroSchema(fieldNames)
	if err != nil {
		return nil, fmt.Errorf("failed to build Avro schema: %w", err)
	}

	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro codec: %w", err)
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: avroCompression(config.Compression),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro writer: %w", err)
	}

	return &avroWriter{
		config:     config,
		codec:      codec,
		ocfWriter:  ocfWriter,
		fieldNames: fieldNames,
		buffer:     make([]interface{}, 0, config.BatchSize),
	}, nil
}

func (aw *avroWriter) WriteRow(row []string) error {
	native := make(map[string]interface{}, len(aw.fieldNames))
	for i, name := range aw.fieldNames {
		if i < len(row) {
			native[name] = map[string]interface{}{"string": row[i]}
		} else {
			native[name] = nil
		}
	}

	aw.buffer = append(aw.buffer, native)
	if len(aw.buffer) >= aw.config.BatchSize {
		return aw.flushBatch()
	}
	return nil
}

func (aw *avroWriter) WriteRows(rows [][]string) error {
	for _, row := range rows {
		if err := aw.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (aw *avroWriter) Flush() error {
	return aw.flushBatch()
}

func (aw *avroWriter) Close() error {
	// The OCF writer has no Close of its own; flushing the final batch
	// completes the container file.
	return aw.flushBatch()
}

func (aw *avroWriter) Format() Format {
	return Avro
}

func (aw *avroWriter) RowsWritten() int64 {
	return aw.rowsWritten
}

func (aw *avroWriter) flushBatch() error {
	if len(aw.buffer) == 0 {
		return nil
	}

	if err := aw.ocfWriter.Append(aw.buffer); err != nil {
		return fmt.Errorf("failed to write Avro records: %w", err)
	}

	aw.rowsWritten += int64(len(aw.buffer))
	aw.buffer = aw.buffer[:0]
	return nil
}

// avroSchema builds a record schema with one optional string field per
// column.
func avroSchema(fieldNames []string) (string, error) {
	fields := make([]map[string]interface{}, len(fieldNames))
	for i, name := range fieldNames {
		fields[i] = map[string]interface{}{
			"name":    name,
			"type":    []interface{}{"null", "string"},
			"default": nil,
		}
	}

	schema := map[string]interface{}{
		"type":   "record",
		"name":   "dataset_row",
		"fields": fields,
	}

	out, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// avroFieldName maps an arbitrary CSV column name onto the restricted Avro
// name grammar ([A-Za-z_][A-Za-z0-9_]*).
func avroFieldName(col string) string {
	if col == "" {
		return "_"
	}

	runes := []rune(col)
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r == '_' || unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	if unicode.IsDigit(out[0]) {
		out = append([]rune{'_'}, out...)
	}
	return string(out)
}

func avroCompression(name string) string {
	switch name {
	case "none":
		return goavro.CompressionNullLabel
	case "deflate", "gzip":
		return goavro.CompressionDeflateLabel
	default:
		return goavro.CompressionSnappyLabel
	}
}
