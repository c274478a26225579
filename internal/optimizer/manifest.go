package optimizer

import (
	"os"

	json "github.com/goccy/go-json"

	"github.com/modelprops/dataopt/pkg/errors"
)

// ColumnSets lists the columns actually used by each projection,
// excluding the synthetic row_id column.
type ColumnSets struct {
	Table  []string `json:"table"`
	Detail []string `json:"detail"`
}

// Index is the lookup manifest written as data_index.json. It tells the
// consuming client how the dataset was split and, when the detail view
// was subsampled, which original rows it retains.
type Index struct {
	TotalRows        int        `json:"total_rows"`
	TableRows        int        `json:"table_rows"`
	DetailRows       int        `json:"detail_rows"`
	AvailableColumns ColumnSets `json:"available_columns"`

	// RowIDMapping is the list of original row ids kept in the detail
	// view, or JSON null when no subsampling occurred. The null-vs-list
	// distinction is part of the contract, so no omitempty here.
	RowIDMapping []int `json:"row_id_mapping"`
}

// Marshal renders the index with two-space indentation.
func (i *Index) Marshal() ([]byte, error) {
	out, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode index")
	}
	return out, nil
}

// WriteFile writes the index to path, overwriting any existing file.
func (i *Index) WriteFile(path string) error {
	data, err := i.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write index file")
	}
	return nil
}
