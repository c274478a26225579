package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/modelprops/dataopt/pkg/errors"
)

// ReadCSV loads a dataset from CSV. The first record is the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "csv input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read csv header")
	}

	d := New(header)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read csv row")
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// ReadCSVFile loads a dataset from a CSV file on disk.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open csv file")
	}
	defer f.Close()

	d, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse "+path)
	}
	return d, nil
}

// WriteCSV writes the dataset as CSV, header first.
func (d *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(d.Columns); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv header")
	}
	for _, row := range d.Rows {
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush csv writer")
	}
	return nil
}

// WriteCSVFile writes the dataset to a CSV file, overwriting any existing
// file at that path.
func (d *Dataset) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create csv file")
	}

	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
